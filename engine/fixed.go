package engine

// Fixed is an unsigned 8.8 fixed point number: the high bits count whole
// ticks, the low 8 bits are the fraction.
type Fixed uint32

// One is a rate of one tick per frame.
const One Fixed = 0x100

// MaxTicks is the largest whole tick count a Fixed holds.
const MaxTicks = 1<<24 - 1

// Ticks returns n whole ticks as a Fixed. n is clamped to 0..MaxTicks.
func Ticks(n int) Fixed {
	return Fixed(min(max(n, 0), MaxTicks)) << 8
}

// maxParam bounds the tick counts, speeds and rates of the effect
// parameters, which are byte sized on the hardware side.
const maxParam = 0xFF

func param(v int) int {
	return min(max(v, 0), maxParam)
}

// Ratio returns num/den as a Fixed, e.g. Ratio(60, 50) to play material
// written for 60 Hz on a 50 Hz frame clock.
func Ratio(num, den int) Fixed {
	if num <= 0 || den <= 0 {
		return One
	}
	return Fixed(num<<8) / Fixed(den)
}

// Int returns the whole part.
func (f Fixed) Int() int { return int(f >> 8) }

// timer is the accumulator of a rate gated effect.
type timer struct {
	acc Fixed
}

// advance adds rate to the accumulator and reports if the threshold of ticks
// was reached. On reaching it the threshold is subtracted, keeping the
// fractional remainder; at most one threshold is consumed per call.
func (t *timer) advance(rate Fixed, ticks int) bool {
	t.acc += rate
	th := Ticks(ticks)
	if t.acc < th {
		return false
	}
	if th == 0 {
		t.acc = 0
		return true
	}
	t.acc -= th
	if t.acc >= th {
		t.acc %= th
	}
	return true
}

// reached adds rate and reports if at least ticks have elapsed in total,
// without consuming anything.
func (t *timer) reached(rate Fixed, ticks int) bool {
	t.acc += rate
	return t.acc >= Ticks(ticks)
}
