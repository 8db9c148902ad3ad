package opl

const (
	lowestNote  = 12
	highestNote = 127

	// detuneDivisor approximates 384/ln(2), so that one detune unit is 1/32
	// of a semitone in the linear frequency domain.
	detuneDivisor = 554
)

// Encode converts a MIDI note to the block / F-number pair of the chip. Notes
// below 12 are clamped to 12 and notes above 127 to 127.
func Encode(note int) (block, fnum int) {
	if note < lowestNote {
		note = lowestNote
	}
	if note > highestNote {
		note = highestNote
	}
	block = (note - lowestNote) / 12
	if block > MaxBlock {
		block = MaxBlock
	}
	fnum = FnumTable[(note-lowestNote)%12]
	return block, fnum
}

// EncodeDetuned encodes note like Encode, shifted by detune 1/32 semitone
// steps. The detuned frequency can leave the range of the original block, so
// the result is re-normalized to the lowest block whose F-number fits in 10
// bits.
func EncodeDetuned(note, detune int) (block, fnum int) {
	if detune < -128 {
		detune = -128
	}
	if detune > 127 {
		detune = 127
	}
	b, f := Encode(note)
	v := f << b
	v += v * detune / detuneDivisor
	if v < 1 {
		v = 1
	}
	for v>>block > MaxFnum && block < MaxBlock {
		block++
	}
	fnum = v >> block
	if fnum > MaxFnum {
		fnum = MaxFnum
	}
	return block, fnum
}

// Pack returns the register pair for a block / F-number: hi goes to
// 0xB0+channel and has the key-on bit set, lo goes to 0xA0+channel.
func Pack(block, fnum int) (hi, lo byte) {
	hi = KeyOnBit | byte(block&7)<<2 | byte(fnum>>8)&0x03
	lo = byte(fnum)
	return hi, lo
}

// Unpack is the inverse of Pack, ignoring the key-on bit.
func Unpack(hi, lo byte) (block, fnum int) {
	return int(hi>>2) & 7, int(hi&0x03)<<8 | int(lo)
}
