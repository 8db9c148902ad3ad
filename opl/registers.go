package opl

// Register bases of the OPL2 register file. Operator registers are offset by
// the operator slot, channel registers by the channel index.
const (
	RegTest         = 0x01 // bit 5 enables waveform select
	RegCharacter    = 0x20 // AM | VIB | EG | KSR | MULT
	RegLevel        = 0x40 // KSL (bits 6-7) | TL (bits 0-5)
	RegAttackDecay  = 0x60
	RegSustainRel   = 0x80
	RegFnumLow      = 0xA0
	RegKeyBlock     = 0xB0 // KEY-ON (bit 5) | BLOCK (bits 2-4) | FNUM high (bits 0-1)
	RegRhythm       = 0xBD
	RegFeedbackConn = 0xC0
	RegWaveform     = 0xE0

	LastRegister = 0xF5
)

const (
	NumChannels = 9

	KeyOnBit = 0x20

	MaxFnum  = 1023
	MaxBlock = 7

	MaxVolume = 63
	// MaxLevel is the total level that silences an operator.
	MaxLevel = 0x3F
)

var (
	ModulatorOffsets = [NumChannels]byte{0x00, 0x01, 0x02, 0x08, 0x09, 0x0A, 0x10, 0x11, 0x12}
	CarrierOffsets   = [NumChannels]byte{0x03, 0x04, 0x05, 0x0B, 0x0C, 0x0D, 0x13, 0x14, 0x15}
)

// IsKeyRegister reports whether reg is one of the key-on/block registers
// 0xB0-0xB8.
func IsKeyRegister(reg byte) bool {
	return reg >= RegKeyBlock && reg < RegKeyBlock+NumChannels
}
