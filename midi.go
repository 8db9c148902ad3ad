package opltrack

type (
	// NoteEvent is a note on or off received from a MIDI input. Tick is the
	// frame the event belongs to, counted by the input since it was opened.
	NoteEvent struct {
		Tick     int
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}

	// MIDIInput delivers the note events received since the previous call.
	// NextEvent is called from the frame loop until it returns false.
	MIDIInput interface {
		NextEvent() (NoteEvent, bool)
		Close()
	}

	// NullMIDIInput is a MIDIInput that never receives anything, for builds
	// without a MIDI driver.
	NullMIDIInput struct{}
)

func (NullMIDIInput) NextEvent() (NoteEvent, bool) { return NoteEvent{}, false }
func (NullMIDIInput) Close()                       {}

// MIDIChannel maps a MIDI channel (0-15) to a hardware voice.
func MIDIChannel(ch int) int {
	if ch < 0 {
		ch = -ch
	}
	return ch % NumChannels
}

// VelocityToVolume maps a MIDI velocity (0-127) to a volume in 0..63.
func VelocityToVolume(velocity byte) int {
	return ClampVolume(int(velocity) >> 1)
}

// Perform plays a note event on p: a note on with a non-zero velocity
// triggers instrument on the mapped channel; note offs and zero velocity
// note ons release it.
func Perform(p Player, ev NoteEvent, instrument int) {
	ch := MIDIChannel(ev.Channel)
	if !ev.On || ev.Velocity == 0 {
		p.Release(ch)
		return
	}
	p.Trigger(ch, Voice{Note: int(ev.Note), Instrument: instrument, Volume: VelocityToVolume(ev.Velocity)})
}
