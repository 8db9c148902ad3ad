package engine

import "github.com/opltrack/opltrack"

type volumeSlide struct {
	active  bool
	current int
	target  int
	mode    opltrack.SlideMode
	speed   int
	timer   timer
}

func (s *volumeSlide) arm(fx opltrack.VolumeSlide, base opltrack.Voice) {
	*s = volumeSlide{
		active:  true,
		current: base.Volume,
		target:  opltrack.ClampVolume(fx.Target),
		mode:    fx.Mode,
		speed:   max(param(fx.Speed), 1),
	}
}

// step returns the next volume and whether the slide is over. A non-zero
// target stops up and down slides too; the volume then lands exactly on it.
func (s *volumeSlide) step() (vol int, done bool) {
	cur := s.current
	switch s.mode {
	case opltrack.SlideUp:
		cur += s.speed
		if s.target > 0 && cur >= s.target {
			return s.target, true
		}
		if cur >= opltrack.MaxVolume {
			return opltrack.MaxVolume, true
		}
		return cur, false
	case opltrack.SlideDown:
		cur -= s.speed
		if s.target > 0 && cur <= s.target {
			return s.target, true
		}
		if cur <= 0 {
			return 0, true
		}
		return cur, false
	case opltrack.SlideToTarget:
		switch {
		case cur < s.target:
			cur += s.speed
			if cur >= s.target {
				return s.target, true
			}
			return cur, false
		case cur > s.target:
			cur -= s.speed
			if cur <= s.target {
				return s.target, true
			}
			return cur, false
		}
	}
	return opltrack.ClampVolume(cur), true
}

// processVolumeSlide writes the carrier level every tick; it never strikes
// the note. The final volume is written on the tick the slide ends.
func (e *Engine) processVolumeSlide(ch int) {
	s := &e.volslide[ch]
	if !s.active {
		return
	}
	if !s.timer.advance(e.rate, 1) {
		return
	}
	vol, done := s.step()
	if done {
		s.active = false
	}
	s.current = vol
	e.chip.SetVolume(ch, vol)
	e.volume[ch] = vol
}
