// Package midifile converts Standard MIDI Files into cue scripts.
package midifile

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/opltrack/opltrack"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120

// lowestKey is the lowest note the chip encodes; lower keys are raised to it,
// which also keeps key 0 from reading as an empty note.
const lowestKey = 12

// Options control the conversion.
type Options struct {
	// TickRate is the frame rate of the resulting script; 0 selects
	// opltrack.DefaultTickRate.
	TickRate int
	// Instruments is the size of the bank the script will be played with.
	// When positive, program changes select instrument program%Instruments;
	// otherwise every note uses instrument 0.
	Instruments int
}

type timedMsg struct {
	tick uint64 // absolute MIDI tick
	msg  smf.Message
}

// Import reads a Standard MIDI File and converts it into a script: MIDI
// channel c plays on voice c mod 9, velocity v sets volume v/2 and MIDI ticks
// are converted to frames following the tempo changes of the file.
func Import(r io.Reader, opts Options) (*opltrack.Script, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("could not read midi file: %w", err)
	}
	return Convert(s, opts)
}

// ImportFile is Import reading from a file.
func ImportFile(path string, opts Options) (*opltrack.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open midi file: %w", err)
	}
	defer f.Close()
	script, err := Import(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return script, nil
}

// Convert converts an already parsed file.
func Convert(s *smf.SMF, opts Options) (*opltrack.Script, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	rate := opts.TickRate
	if rate <= 0 {
		rate = opltrack.DefaultTickRate
	}
	var msgs []timedMsg
	for _, track := range s.Tracks {
		var abs uint64
		for _, ev := range track {
			abs += uint64(ev.Delta)
			msgs = append(msgs, timedMsg{tick: abs, msg: ev.Message})
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].tick < msgs[j].tick })
	script := &opltrack.Script{TickRate: rate}
	var (
		bpm      float64 = defaultBPM
		seconds  float64
		lastTick uint64
		program  [16]int
		sounding [opltrack.NumChannels]int
	)
	for i := range sounding {
		sounding[i] = -1
	}
	for _, m := range msgs {
		seconds += float64(m.tick-lastTick) / float64(mt) * 60 / bpm
		lastTick = m.tick
		frame := int(math.Round(seconds * float64(rate)))
		var t float64
		if m.msg.GetMetaTempo(&t) && t > 0 {
			bpm = t
			continue
		}
		var ch, key, vel uint8
		msg := midi.Message(m.msg)
		switch {
		case msg.GetProgramChange(&ch, &key):
			if opts.Instruments > 0 {
				program[ch&15] = int(key) % opts.Instruments
			}
		case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
			voice := opltrack.MIDIChannel(int(ch))
			volume := opltrack.VelocityToVolume(vel)
			script.Events = append(script.Events, opltrack.Event{
				Tick:       frame,
				Channel:    voice,
				Note:       opltrack.ClampNote(max(int(key), lowestKey)),
				Instrument: program[ch&15],
				Volume:     &volume,
			})
			sounding[voice] = int(key)
		case msg.GetNoteOn(&ch, &key, &vel), msg.GetNoteOff(&ch, &key, &vel):
			voice := opltrack.MIDIChannel(int(ch))
			if sounding[voice] != int(key) {
				continue // a later note took the voice over
			}
			script.Events = append(script.Events, opltrack.Event{Tick: frame, Channel: voice, Note: opltrack.NoteOff})
			sounding[voice] = -1
		}
		if frame+1 > script.Length {
			script.Length = frame + 1
		}
	}
	return script, nil
}
