package opl

import "github.com/opltrack/opltrack"

// drumNote is the pitch every note on a drum channel is played at, so that FM
// drum patches keep their intended timbre.
const drumNote = 60

// Chip is the single gateway to the synthesizer registers. It keeps a shadow
// of the 256 registers and suppresses writes that would not change the
// hardware state. While an export is running, writes are appended to a
// Capture instead of reaching the bus.
//
// All voice level helpers (NoteOn, SetVolume, ...) go through Write, so the
// dedup and capture rules apply to them as well. Chip is not safe for
// concurrent use.
type Chip struct {
	bus     Bus
	shadow  [256]byte
	b0      [NumChannels]byte // last key/block/fnum-high byte per channel, key-on bit included
	ksl     [NumChannels]byte // carrier KSL bits of the current patch
	drum    [NumChannels]bool
	capture *Capture
}

// NewChip returns a chip writing to bus. The shadow starts dirty, so the first
// write to every register reaches the hardware.
func NewChip(bus Bus) *Chip {
	if bus == nil {
		bus = NullBus{}
	}
	c := &Chip{bus: bus}
	c.dirtyShadow()
	return c
}

func (c *Chip) dirtyShadow() {
	for i := range c.shadow {
		c.shadow[i] = 0xFF
	}
}

// Write sets a register. The write is dropped when the shadow already holds
// value, except for the key registers 0xB0-0xB8 during an export: the capture
// needs every key event even if the bit pattern repeats.
func (c *Chip) Write(reg, value byte) {
	bypass := c.capture != nil && IsKeyRegister(reg)
	if !bypass && c.shadow[reg] == value {
		return
	}
	c.shadow[reg] = value
	if c.capture != nil {
		c.capture.append(reg, value)
		return
	}
	c.bus.Address(reg)
	c.bus.Data(value)
}

// ForceWrite updates the shadow and always writes the hardware, ignoring both
// the dedup and a running export.
func (c *Chip) ForceWrite(reg, value byte) {
	c.shadow[reg] = value
	c.bus.Address(reg)
	c.bus.Data(value)
}

// Shadow returns the last value written to reg.
func (c *Chip) Shadow(reg byte) byte { return c.shadow[reg] }

// KeyBlock returns the pitch context of a channel: the last byte written to
// its 0xB0 register, key-on bit included.
func (c *Chip) KeyBlock(ch int) byte {
	if !validChannel(ch) {
		return 0
	}
	return c.b0[ch]
}

// BeginExport redirects all following non-forced writes to capture.
func (c *Chip) BeginExport(capture *Capture) { c.capture = capture }

// EndExport stops capturing and returns the capture that was in use.
func (c *Chip) EndExport() *Capture {
	ret := c.capture
	c.capture = nil
	return ret
}

// Exporting reports whether writes are currently captured.
func (c *Chip) Exporting() bool { return c.capture != nil }

// Capture returns the running capture, or nil.
func (c *Chip) Capture() *Capture { return c.capture }

// NoteOn sets the pitch of a channel with the key-on bit set.
func (c *Chip) NoteOn(ch, note int) {
	if !validChannel(ch) {
		return
	}
	if c.drum[ch] {
		note = drumNote
	}
	hi, lo := Pack(Encode(note))
	c.Write(RegFnumLow+byte(ch), lo)
	c.Write(RegKeyBlock+byte(ch), hi)
	c.b0[ch] = hi
}

// NoteOnDetuned is NoteOn with a fine detune in 1/32 semitone steps.
func (c *Chip) NoteOnDetuned(ch, note, detune int) {
	if !validChannel(ch) {
		return
	}
	if c.drum[ch] {
		note = drumNote
	}
	hi, lo := Pack(EncodeDetuned(note, detune))
	c.Write(RegFnumLow+byte(ch), lo)
	c.Write(RegKeyBlock+byte(ch), hi)
	c.b0[ch] = hi
}

// SetPitch changes the pitch of a channel without retriggering it: the key-on
// bit keeps its previous state.
func (c *Chip) SetPitch(ch, note int) {
	if !validChannel(ch) {
		return
	}
	if c.drum[ch] {
		note = drumNote
	}
	hi, lo := Pack(Encode(note))
	hi = hi&^KeyOnBit | c.b0[ch]&KeyOnBit
	c.Write(RegFnumLow+byte(ch), lo)
	c.Write(RegKeyBlock+byte(ch), hi)
	c.b0[ch] = hi
}

// NoteOff clears the key-on bit of a channel, keeping block and F-number. The
// write is issued even when the channel is already off, so an export records
// the event.
func (c *Chip) NoteOff(ch int) {
	if !validChannel(ch) {
		return
	}
	v := c.b0[ch] &^ KeyOnBit
	c.Write(RegKeyBlock+byte(ch), v)
	c.b0[ch] = v
}

// SetVolume sets the carrier total level of a channel from a volume in 0..63,
// keeping the KSL bits of the current patch.
func (c *Chip) SetVolume(ch, vol int) {
	if !validChannel(ch) {
		return
	}
	vol = opltrack.ClampVolume(vol)
	c.Write(RegLevel+CarrierOffsets[ch], c.ksl[ch]&0xC0|byte(MaxVolume-vol))
}

// SetPatch loads an instrument into both operators of a channel.
func (c *Chip) SetPatch(ch int, instr *opltrack.Instrument) {
	if !validChannel(ch) || instr == nil {
		return
	}
	c.writeOperator(ModulatorOffsets[ch], instr.Modulator)
	c.writeOperator(CarrierOffsets[ch], instr.Carrier)
	c.Write(RegFeedbackConn+byte(ch), instr.Feedback)
	c.ksl[ch] = instr.Carrier.Level & 0xC0
	c.drum[ch] = instr.Drum
}

func (c *Chip) writeOperator(off byte, op opltrack.Operator) {
	c.Write(RegCharacter+off, op.Characteristic)
	c.Write(RegLevel+off, op.Level)
	c.Write(RegAttackDecay+off, op.AttackDecay)
	c.Write(RegSustainRel+off, op.SustainRelease)
	c.Write(RegWaveform+off, op.Waveform)
}

// SetDrum marks a channel as a drum channel; all its notes play at middle C.
func (c *Chip) SetDrum(ch int, drum bool) {
	if !validChannel(ch) {
		return
	}
	c.drum[ch] = drum
}

// Reset brings the chip to a known state: shadow marked dirty, every voice
// keyed off, registers 0x01-0xF5 cleared, waveform select enabled and
// melodic mode selected.
func (c *Chip) Reset() {
	c.dirtyShadow()
	for ch := 0; ch < NumChannels; ch++ {
		c.Write(RegKeyBlock+byte(ch), 0)
		c.b0[ch] = 0
		c.ksl[ch] = 0
		c.drum[ch] = false
	}
	for reg := 0x01; reg <= LastRegister; reg++ {
		c.Write(byte(reg), 0)
	}
	c.Write(RegTest, 0x20)
	c.Write(RegRhythm, 0x00)
}

// Silence keys off every voice through the normal write path.
func (c *Chip) Silence() {
	for ch := 0; ch < NumChannels; ch++ {
		c.Write(RegKeyBlock+byte(ch), 0)
		c.b0[ch] = 0
	}
}

// Panic forces every voice off and its carrier to full attenuation, whatever
// the shadow believes the hardware state is.
func (c *Chip) Panic() {
	for ch := 0; ch < NumChannels; ch++ {
		c.ForceWrite(RegKeyBlock+byte(ch), 0)
		c.ForceWrite(RegLevel+CarrierOffsets[ch], MaxLevel)
		c.b0[ch] = 0
	}
}

func validChannel(ch int) bool {
	return ch >= 0 && ch < NumChannels
}
