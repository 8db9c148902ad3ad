// Package gomidi delivers live MIDI note events through the rtmidi driver.
package gomidi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opltrack/opltrack"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext listens to one input device at a time. Messages arrive on
	// the goroutine of the driver and are queued until the frame loop asks
	// for them with NextEvent.
	RTMIDIContext struct {
		driver    *rtmididrv.Driver
		currentIn drivers.In
		stop      func()
		events    chan timestampedMsg
		tickRate  int
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}

	timestampedMsg struct {
		tick int
		msg  midi.Message
	}
)

// NewContext opens the driver. The timestamps of the received messages are
// converted to ticks at tickRate frames per second.
func NewContext(tickRate int) *RTMIDIContext {
	if tickRate <= 0 {
		tickRate = opltrack.DefaultTickRate
	}
	m := RTMIDIContext{events: make(chan timestampedMsg, 1024), tickRate: tickRate}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

// InputDevices lists the input ports of the driver.
func (m *RTMIDIContext) InputDevices() ([]RTMIDIDevice, error) {
	if m.driver == nil {
		return nil, errors.New("no driver available")
	}
	ins, err := m.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("could not list MIDI inputs: %w", err)
	}
	ret := make([]RTMIDIDevice, len(ins))
	for i, in := range ins {
		ret[i] = RTMIDIDevice{context: m, in: in}
	}
	return ret, nil
}

// Open an input device while closing the currently open if necessary.
func (d RTMIDIDevice) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	c.closeInput()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, c.HandleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.currentIn, c.stop = d.in, stop
	return nil
}

func (d RTMIDIDevice) String() string {
	return d.in.String()
}

// OpenBy opens the first input whose name starts with namePrefix; an empty
// prefix takes the first input there is.
func (m *RTMIDIContext) OpenBy(namePrefix string) error {
	devices, err := m.InputDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		if strings.HasPrefix(d.String(), namePrefix) {
			return d.Open()
		}
	}
	if namePrefix == "" {
		return errors.New("could not find any MIDI input")
	}
	return fmt.Errorf("could not find any MIDI input starting with %q", namePrefix)
}

// HandleMessage queues a received message. If the queue is full, the message
// is dropped.
func (m *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	tick := int(int64(timestampms) * int64(m.tickRate) / int64(time.Second/time.Millisecond))
	select {
	case m.events <- timestampedMsg{tick: tick, msg: msg}:
	default:
	}
}

// NextEvent returns the next queued note event without blocking.
func (m *RTMIDIContext) NextEvent() (event opltrack.NoteEvent, ok bool) {
	for {
		select {
		case e := <-m.events:
			var channel, key, velocity uint8
			isNoteOn := e.msg.GetNoteOn(&channel, &key, &velocity)
			isNoteOff := !isNoteOn && e.msg.GetNoteOff(&channel, &key, &velocity)
			if isNoteOn || isNoteOff {
				return opltrack.NoteEvent{
					Tick:     e.tick,
					On:       isNoteOn,
					Channel:  int(channel),
					Note:     key,
					Velocity: velocity,
				}, true
			}
		default:
			return opltrack.NoteEvent{}, false
		}
	}
}

// HasDeviceOpen reports whether an input is being listened to.
func (m *RTMIDIContext) HasDeviceOpen() bool {
	return m.currentIn != nil && m.currentIn.IsOpen()
}

func (m *RTMIDIContext) closeInput() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
	if m.currentIn != nil && m.currentIn.IsOpen() {
		m.currentIn.Close()
	}
	m.currentIn = nil
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.closeInput()
	m.driver.Close()
}
