// Package opltrack holds the data types shared by the tracker core: voices,
// instruments, effects and cue scripts. The register level implementation
// lives in package opl, the tick driven effect engine in package engine.
package opltrack

const (
	// NumChannels is the number of hardware voices, one per tracker channel.
	NumChannels = 9

	MaxNote   = 127
	MaxVolume = 63

	// NoteNone in an event leaves the channel alone; NoteOff releases it.
	NoteNone = 0
	NoteOff  = 255
)

// Voice is what a channel plays: a note, an instrument of the bank and a
// volume in 0..63 (63 is loudest).
type Voice struct {
	Note       int
	Instrument int
	Volume     int
}

// ValidChannel reports if ch is a hardware voice index.
func ValidChannel(ch int) bool {
	return ch >= 0 && ch < NumChannels
}

func ClampNote(note int) int {
	return clamp(note, 0, MaxNote)
}

func ClampVolume(vol int) int {
	return clamp(vol, 0, MaxVolume)
}

// Clamped returns the voice with note and volume forced into their ranges.
func (v Voice) Clamped() Voice {
	return Voice{Note: ClampNote(v.Note), Instrument: v.Instrument, Volume: ClampVolume(v.Volume)}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
