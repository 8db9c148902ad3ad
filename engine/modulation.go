package engine

import "github.com/opltrack/opltrack"

// phaseStep is the phase advance per rate period: 8 periods make a cycle.
const phaseStep = 32

// Wave returns the offset of a modulation waveform at phase (0-255 is one
// cycle) for a depth. The sine is approximated piecewise linearly over its
// four quadrants; the triangle ramps up and down and is centered by
// subtracting depth/2.
func Wave(w opltrack.Waveform, phase uint8, depth int) int {
	p := int(phase)
	switch w {
	case opltrack.Sine:
		switch {
		case p < 64:
			return p * depth / 64
		case p < 128:
			return (127 - p) * depth / 64
		case p < 192:
			return -((p - 128) * depth) / 64
		default:
			return -((255 - p) * depth / 64)
		}
	case opltrack.Triangle:
		var v int
		if p < 128 {
			v = p * depth / 128
		} else {
			v = (255 - p) * depth / 128
		}
		return v - depth/2
	case opltrack.Square:
		if p < 128 {
			return depth
		}
		return -depth
	}
	return 0
}

// modulator is the state shared by vibrato and tremolo.
type modulator struct {
	active   bool
	rate     int
	depth    int
	waveform opltrack.Waveform
	phase    uint8
	timer    timer
}

func (m *modulator) set(rate, depth, minDepth int, w opltrack.Waveform) {
	*m = modulator{
		active:   true,
		rate:     max(param(rate), 1),
		depth:    depth,
		waveform: w,
	}
	if m.depth <= 0 {
		m.depth = minDepth
	}
}

// advance steps the phase when a rate period elapsed and returns the offset
// at the new phase.
func (m *modulator) advance(rate Fixed) (offset int, ok bool) {
	if !m.timer.advance(rate, m.rate) {
		return 0, false
	}
	m.phase += phaseStep
	return Wave(m.waveform, m.phase, m.depth), true
}

type vibrato struct {
	modulator
	note int
}

func (v *vibrato) arm(fx opltrack.Vibrato, base opltrack.Voice) {
	v.set(fx.Rate, fx.Depth, 1, fx.Waveform)
	v.note = base.Note
}

type tremolo struct {
	modulator
	volume int
}

func (t *tremolo) arm(fx opltrack.Tremolo, base opltrack.Voice) {
	t.set(fx.Rate, fx.Depth, 4, fx.Waveform)
	t.volume = base.Volume
}

// processVibrato changes the pitch around the base note without striking it;
// the key on bit stays as it was.
func (e *Engine) processVibrato(ch int) {
	v := &e.vibrato[ch]
	if !v.active {
		return
	}
	offset, ok := v.advance(e.rate)
	if !ok {
		return
	}
	e.chip.SetPitch(ch, opltrack.ClampNote(v.note+offset))
}

// processTremolo changes the volume around the base volume.
func (e *Engine) processTremolo(ch int) {
	t := &e.tremolo[ch]
	if !t.active {
		return
	}
	offset, ok := t.advance(e.rate)
	if !ok {
		return
	}
	vol := opltrack.ClampVolume(t.volume + offset)
	e.chip.SetVolume(ch, vol)
	e.volume[ch] = vol
}
