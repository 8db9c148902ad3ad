package opltrack

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultTickRate is the frame rate scripts are played at when they do not
// set one.
const DefaultTickRate = 60

type (
	// Script is a list of timed cues for the 9 channels. It stands in for the
	// pattern sequencer of a tracker: every event happens at the start of its
	// tick, before the effects of that tick run.
	Script struct {
		TickRate int    `yaml:"tickRate,omitempty"` // frames per second
		Length   int    `yaml:",omitempty"`         // in ticks; 0 ends one tick after the last event
		Bank     string `yaml:",omitempty"`         // optional path of an instrument bank
		Events   []Event
	}

	// Event is one cue of a script. Note 0 leaves the channel alone, NoteOff
	// releases it and anything else triggers that note with the instrument and
	// volume of the event. Stop disarms all effects of the channel before the
	// effects of the event are applied.
	Event struct {
		Tick       int
		Channel    int
		Note       int         `yaml:",omitempty"`
		Instrument int         `yaml:",omitempty"`
		Volume     *int        `yaml:",omitempty"` // MaxVolume when nil
		Stop       bool        `yaml:",omitempty"`
		Effect     *EffectSpec `yaml:",omitempty"`
	}
)

// ReadScript decodes a script; JSON is tried first and YAML second.
func ReadScript(data []byte) (*Script, error) {
	var s Script
	if errJSON := json.Unmarshal(data, &s); errJSON != nil {
		s = Script{}
		if errYaml := yaml.Unmarshal(data, &s); errYaml != nil {
			return nil, fmt.Errorf("the script could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	if s.TickRate == 0 {
		s.TickRate = DefaultTickRate
	}
	return &s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read script: %w", err)
	}
	s, err := ReadScript(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return s, nil
}

// Validate checks that the script can be played, returning the first problem
// found.
func (s *Script) Validate() error {
	if s.TickRate < 1 {
		return errors.New("tick rate should be > 0")
	}
	if s.Length < 0 {
		return errors.New("length should be >= 0")
	}
	for i, e := range s.Events {
		if err := e.validate(s.Length); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func (e *Event) validate(length int) error {
	switch {
	case e.Tick < 0:
		return errors.New("tick should be >= 0")
	case length > 0 && e.Tick >= length:
		return fmt.Errorf("tick %d is past the end of the script (%d)", e.Tick, length)
	case !ValidChannel(e.Channel):
		return fmt.Errorf("channel should be in 0..%d, got %d", NumChannels-1, e.Channel)
	case e.Note < 0 || e.Note > MaxNote && e.Note != NoteOff:
		return fmt.Errorf("invalid note %d", e.Note)
	case e.Instrument < 0:
		return errors.New("instrument should be >= 0")
	case e.Volume != nil && (*e.Volume < 0 || *e.Volume > MaxVolume):
		return fmt.Errorf("volume should be in 0..%d, got %d", MaxVolume, *e.Volume)
	}
	if e.Effect != nil {
		if a := e.Effect.Arpeggio; a != nil && (a.Style < 0 || a.Style >= NumArpStyles) {
			return fmt.Errorf("invalid arpeggio style %d", a.Style)
		}
	}
	return nil
}

// Voice returns the voice the event triggers. Volume defaults to MaxVolume.
func (e *Event) Voice() Voice {
	v := Voice{Note: e.Note, Instrument: e.Instrument, Volume: MaxVolume}
	if e.Volume != nil {
		v.Volume = *e.Volume
	}
	return v
}

// LengthInTicks returns the number of ticks the script plays for.
func (s *Script) LengthInTicks() int {
	if s.Length > 0 {
		return s.Length
	}
	ret := 0
	for _, e := range s.Events {
		if e.Tick >= ret {
			ret = e.Tick + 1
		}
	}
	return ret
}

// Sorted returns a copy of the events, stably sorted by tick so that events
// of the same tick keep their order in the file.
func (s *Script) Sorted() []Event {
	ret := make([]Event, len(s.Events))
	copy(ret, s.Events)
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Tick < ret[j].Tick })
	return ret
}
