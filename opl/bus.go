package opl

import (
	"fmt"
	"io"
)

type (
	// Bus is the physical interface of the chip. A register write is a two
	// cycle sequence: the register index is latched with Address, then the
	// value is stored with Data.
	Bus interface {
		Address(reg byte)
		Data(value byte)
	}

	// Write is one register write as seen on a bus.
	Write struct {
		Reg   byte
		Value byte
	}

	// RecordingBus keeps every completed write in memory. Useful for tests and
	// for dumping what the chip would have received.
	RecordingBus struct {
		Writes []Write
		latch  byte
	}

	// StreamBus forwards writes as (register, value) byte pairs to an
	// io.Writer, e.g. the serial port of an OPL2 board. The first I/O error is
	// kept and all following writes are dropped.
	StreamBus struct {
		w     io.Writer
		latch byte
		buf   [2]byte
		err   error
	}

	// NullBus discards everything.
	NullBus struct{}
)

func (b *RecordingBus) Address(reg byte) { b.latch = reg }

func (b *RecordingBus) Data(value byte) {
	b.Writes = append(b.Writes, Write{Reg: b.latch, Value: value})
}

// Reset forgets the recorded writes, keeping the allocated capacity.
func (b *RecordingBus) Reset() { b.Writes = b.Writes[:0] }

func NewStreamBus(w io.Writer) *StreamBus {
	return &StreamBus{w: w}
}

func (b *StreamBus) Address(reg byte) { b.latch = reg }

func (b *StreamBus) Data(value byte) {
	if b.err != nil {
		return
	}
	b.buf[0], b.buf[1] = b.latch, value
	if _, err := b.w.Write(b.buf[:]); err != nil {
		b.err = fmt.Errorf("could not write register %02X: %w", b.latch, err)
	}
}

// Err returns the first error the underlying writer returned.
func (b *StreamBus) Err() error { return b.err }

func (NullBus) Address(byte) {}
func (NullBus) Data(byte)    {}

func (w Write) String() string {
	return fmt.Sprintf("%02X=%02X", w.Reg, w.Value)
}
