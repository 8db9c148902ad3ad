package gomidi_test

import (
	"testing"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/gomidi"
	"gitlab.com/gomidi/midi/v2"
)

func TestNextEvent(t *testing.T) {
	ctx := gomidi.NewContext(60)
	defer ctx.Close()
	ctx.HandleMessage(midi.ControlChange(0, 7, 100), 0)
	ctx.HandleMessage(midi.NoteOn(1, 60, 100), 1000)
	ctx.HandleMessage(midi.NoteOff(1, 60), 1500)
	ev, ok := ctx.NextEvent()
	expected := opltrack.NoteEvent{Tick: 60, On: true, Channel: 1, Note: 60, Velocity: 100}
	if !ok || ev != expected {
		t.Fatalf("got %+v, %v, expected %+v", ev, ok, expected)
	}
	ev, ok = ctx.NextEvent()
	if !ok || ev.On || ev.Tick != 90 {
		t.Fatalf("got %+v, %v, expected a note off at tick 90", ev, ok)
	}
	if _, ok := ctx.NextEvent(); ok {
		t.Fatal("got an event from an empty queue")
	}
}

func TestFullQueueDrops(t *testing.T) {
	ctx := gomidi.NewContext(60)
	defer ctx.Close()
	for i := 0; i < 2000; i++ {
		ctx.HandleMessage(midi.NoteOn(0, 60, 1), 0)
	}
	n := 0
	for _, ok := ctx.NextEvent(); ok; _, ok = ctx.NextEvent() {
		n++
	}
	if n == 0 || n >= 2000 {
		t.Fatalf("got %v events, expected the overflow to be dropped", n)
	}
}
