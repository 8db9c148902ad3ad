// Package meter turns the volume samples the engine publishes every tick into
// smoothed per channel levels for a VU display.
package meter

import (
	"math"
	"strings"

	"github.com/opltrack/opltrack"
	"github.com/viterin/vek/vek32"
)

// Meter smooths the published volumes of the channels with an exponentially
// decaying average: a rising volume is followed with the Attack time constant,
// a falling one with the Release time constant (both in seconds).
//
// Typical values for a peak display are an attack of 0.01 s and a release of
// 0.5 s.
type Meter struct {
	Attack   float64
	Release  float64
	TickRate int // ticks per second, opltrack.DefaultTickRate if 0

	level []float32
	in    []float32
	rise  []float32
	fall  []float32
	zeros []float32
}

func New(attack, release float64, tickRate int) *Meter {
	return &Meter{Attack: attack, Release: release, TickRate: tickRate}
}

func (m *Meter) init() {
	if m.level != nil {
		return
	}
	m.level = vek32.Zeros(opltrack.NumChannels)
	m.in = vek32.Zeros(opltrack.NumChannels)
	m.rise = vek32.Zeros(opltrack.NumChannels)
	m.fall = vek32.Zeros(opltrack.NumChannels)
	m.zeros = vek32.Zeros(opltrack.NumChannels)
}

// alpha returns the smoothing factor of a time constant for one tick. A zero
// time constant follows the input immediately.
func (m *Meter) alpha(tc float64) float32 {
	if tc <= 0 {
		return 1
	}
	rate := m.TickRate
	if rate <= 0 {
		rate = opltrack.DefaultTickRate
	}
	// from https://en.wikipedia.org/wiki/Exponential_smoothing
	return float32(1 - math.Exp(-1.0/(tc*float64(rate))))
}

// Update advances the meter by one tick with the volumes (0..63) published in
// that tick.
func (m *Meter) Update(volumes [opltrack.NumChannels]int) {
	m.init()
	for i, v := range volumes {
		m.in[i] = float32(opltrack.ClampVolume(v))
	}
	vek32.MulNumber_Inplace(m.in, 1.0/opltrack.MaxVolume)
	vek32.Sub_Inplace(m.in, m.level)
	vek32.Maximum_Into(m.rise, m.in, m.zeros)
	vek32.Minimum_Into(m.fall, m.in, m.zeros)
	vek32.MulNumber_Inplace(m.rise, m.alpha(m.Attack))
	vek32.MulNumber_Inplace(m.fall, m.alpha(m.Release))
	vek32.Add_Inplace(m.level, m.rise)
	vek32.Add_Inplace(m.level, m.fall)
}

// Levels returns the current level of every channel in 0..1. The slice is
// owned by the meter.
func (m *Meter) Levels() []float32 {
	m.init()
	return m.level
}

// Peak returns the highest channel level.
func (m *Meter) Peak() float32 {
	m.init()
	return vek32.Max(m.level)
}

// Reset drops all levels to zero, e.g. after a panic.
func (m *Meter) Reset() {
	m.init()
	copy(m.level, m.zeros)
}

// Bars renders the levels as one text bar per channel, width characters
// wide.
func (m *Meter) Bars(width int) string {
	var b strings.Builder
	for i, l := range m.Levels() {
		n := int(l*float32(width) + 0.5)
		n = max(0, min(n, width))
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strings.Repeat("#", n))
		b.WriteString(strings.Repeat(".", width-n))
	}
	return b.String()
}
