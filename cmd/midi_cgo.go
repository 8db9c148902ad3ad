//go:build cgo

package cmd

import (
	"fmt"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/gomidi"
)

// NewMIDIInput opens the first MIDI input whose name starts with prefix.
// Timestamps are converted to ticks at tickRate.
func NewMIDIInput(tickRate int, prefix string) (opltrack.MIDIInput, error) {
	ctx := gomidi.NewContext(tickRate)
	if err := ctx.OpenBy(prefix); err != nil {
		ctx.Close()
		return opltrack.NullMIDIInput{}, fmt.Errorf("could not open MIDI input: %w", err)
	}
	return ctx, nil
}
