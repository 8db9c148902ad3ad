package opltrack

type (
	// Instrument is a two operator OPL2 patch. The operator fields are raw
	// register values; Feedback is the value of register 0xC0 (feedback << 1 |
	// connection).
	Instrument struct {
		Name      string `yaml:",omitempty"`
		Modulator Operator
		Carrier   Operator
		Feedback  byte
		// Drum instruments play every note at middle C, so the patch decides
		// the sound instead of the pitch.
		Drum bool `yaml:",omitempty"`
	}

	// Operator holds the per operator registers.
	Operator struct {
		Characteristic byte `yaml:"char"`  // 0x20: AM | VIB | EG | KSR | MULT
		Level          byte `yaml:"level"` // 0x40: KSL | TL
		AttackDecay    byte `yaml:"ad"`    // 0x60
		SustainRelease byte `yaml:"sr"`    // 0x80
		Waveform       byte `yaml:"wave"`  // 0xE0
	}
)
