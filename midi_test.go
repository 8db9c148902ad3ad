package opltrack_test

import (
	"reflect"
	"testing"

	"github.com/opltrack/opltrack"
)

func TestPerform(t *testing.T) {
	var p logPlayer
	opltrack.Perform(&p, opltrack.NoteEvent{On: true, Channel: 10, Note: 64, Velocity: 127}, 2)
	opltrack.Perform(&p, opltrack.NoteEvent{On: true, Channel: 10, Note: 64, Velocity: 0}, 2)
	opltrack.Perform(&p, opltrack.NoteEvent{Channel: 3, Note: 64}, 2)
	expected := []string{"0 trigger 1 {64 2 63}", "0 release 1", "0 release 3"}
	if !reflect.DeepEqual(p.log, expected) {
		t.Fatalf("got %v, expected %v", p.log, expected)
	}
}

func TestNullMIDIInput(t *testing.T) {
	var in opltrack.MIDIInput = opltrack.NullMIDIInput{}
	if _, ok := in.NextEvent(); ok {
		t.Fatal("null input delivered an event")
	}
	in.Close()
}
