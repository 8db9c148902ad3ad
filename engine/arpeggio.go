package engine

import "github.com/opltrack/opltrack"

// ArpTicks maps the speed nibble of an arpeggio to the number of ticks per
// step.
var ArpTicks = [16]int{1, 2, 3, 6, 9, 12, 18, 24, 30, 36, 42, 48, 60, 72, 84, 96}

type arpeggio struct {
	active        bool
	justTriggered bool
	voice         opltrack.Voice
	style         opltrack.ArpStyle
	depth         int
	ticks         int
	step          int
	timer         timer
}

func (a *arpeggio) arm(p opltrack.Arpeggio, base opltrack.Voice) {
	*a = arpeggio{
		active:        true,
		justTriggered: true,
		voice:         base,
		style:         p.Style,
		depth:         p.Depth,
		ticks:         ArpTicks[p.Speed&0x0F],
	}
}

// ArpOffset returns the semitone offset of step index of an arpeggio. The
// two note styles alternate on index mod 2, the chord styles cycle on index
// mod 4.
func ArpOffset(style opltrack.ArpStyle, depth, index int) int {
	if index < 0 {
		index = -index
	}
	i2, i4 := index%2, index%4
	chord := func(third, fifth, top int) int {
		return [4]int{0, third, fifth, top}[i4]
	}
	switch style {
	case opltrack.ArpUp:
		if i2 == 1 {
			return depth
		}
		return 0
	case opltrack.ArpDown:
		if i2 == 0 {
			return depth
		}
		return 0
	case opltrack.ArpMajor:
		return chord(4, 7, 12)
	case opltrack.ArpMinor:
		return chord(3, 7, 12)
	case opltrack.ArpMaj7:
		return chord(4, 7, 11)
	case opltrack.ArpMin7:
		return chord(3, 7, 10)
	case opltrack.ArpSus4:
		return chord(5, 7, 12)
	case opltrack.ArpSus2:
		return chord(2, 7, 12)
	case opltrack.ArpDim:
		return chord(3, 6, 9)
	case opltrack.ArpAug:
		return chord(4, 8, 12)
	case opltrack.ArpPower:
		return chord(7, 12, 12)
	case opltrack.ArpUpDown:
		return chord(depth, depth, 0)
	case opltrack.ArpUp3:
		return i4 * depth
	case opltrack.ArpOctave:
		return i2 * 12
	case opltrack.ArpFifth:
		return i2 * 7
	case opltrack.ArpDouble:
		if i4 < 2 {
			return 0
		}
		return depth
	}
	return 0
}

// processArpeggio skips the tick the arpeggio was armed or its note struck,
// then strikes base+offset every time a step elapses, even when the offset
// is 0: the envelopes need a fresh key on.
func (e *Engine) processArpeggio(ch int) {
	a := &e.arp[ch]
	if !a.active {
		return
	}
	if a.justTriggered {
		a.justTriggered = false
		return
	}
	if !a.timer.advance(e.rate, a.ticks) {
		return
	}
	a.step++
	v := a.voice
	v.Note = opltrack.ClampNote(v.Note + ArpOffset(a.style, a.depth, a.step))
	e.strike(ch, v)
}
