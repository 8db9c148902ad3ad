package engine

import "github.com/opltrack/opltrack"

type portamento struct {
	active bool
	voice  opltrack.Voice // Note is the current note of the slide
	target int
	mode   opltrack.SlideMode
	speed  int
	timer  timer
}

func (p *portamento) arm(fx opltrack.Portamento, base opltrack.Voice) {
	*p = portamento{
		active: true,
		voice:  base,
		target: opltrack.ClampNote(fx.Target),
		mode:   fx.Mode,
		speed:  max(param(fx.Speed), 1),
	}
}

// step moves the note one semitone and reports whether the slide ended
// instead. Up and down end at the edges of the note range or when they pass
// a non-zero target; to target ends on the target.
func (p *portamento) step() (note int, done bool) {
	cur := p.voice.Note
	switch p.mode {
	case opltrack.SlideUp:
		if cur >= opltrack.MaxNote {
			return cur, true
		}
		cur++
		return cur, p.target > 0 && cur >= p.target
	case opltrack.SlideDown:
		if cur <= 0 {
			return cur, true
		}
		cur--
		return cur, p.target > 0 && cur <= p.target
	case opltrack.SlideToTarget:
		switch {
		case cur < p.target:
			return cur + 1, false
		case cur > p.target:
			return cur - 1, false
		}
	}
	return cur, true
}

// processPortamento strikes the next note of the slide every speed ticks. The
// slide stops without writing anything once it ends.
func (e *Engine) processPortamento(ch int) {
	p := &e.porta[ch]
	if !p.active {
		return
	}
	if !p.timer.advance(e.rate, p.speed) {
		return
	}
	note, done := p.step()
	if done {
		p.active = false
		return
	}
	p.voice.Note = note
	e.strike(ch, p.voice)
}
