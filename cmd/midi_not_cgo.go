//go:build !cgo

package cmd

import (
	"errors"

	"github.com/opltrack/opltrack"
)

func NewMIDIInput(tickRate int, prefix string) (opltrack.MIDIInput, error) {
	// with no cgo, we cannot use MIDI, so return a null input
	return opltrack.NullMIDIInput{}, errors.New("MIDI input needs a build with cgo")
}
