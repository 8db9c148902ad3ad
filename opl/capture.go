package opl

import (
	"encoding/binary"
	"math"
)

// RecordSize is the size of one captured write: register, value and the
// little endian tick delay since the previous record.
const RecordSize = 4

// DefaultCaptureSize is the staging buffer size used when none is given.
const DefaultCaptureSize = 0x4000

type (
	// Capture is the staging buffer of an export. Writes redirected to it are
	// appended as 4-byte records; records that would not fit are dropped
	// whole. The pending delay is advanced by whoever owns the tick clock, once
	// per tick, and is reset by every record.
	Capture struct {
		buf     []byte
		delay   uint16
		dropped int
	}

	// Record is one decoded capture record.
	Record struct {
		Reg   byte
		Value byte
		Delay uint16 // ticks since the previous record
	}
)

// NewCapture returns an empty capture with room for capacity bytes. The
// capacity is rounded down to whole records; a non-positive capacity selects
// DefaultCaptureSize.
func NewCapture(capacity int) *Capture {
	if capacity <= 0 {
		capacity = DefaultCaptureSize
	}
	capacity -= capacity % RecordSize
	return &Capture{buf: make([]byte, 0, capacity)}
}

// Tick advances the pending delay by one tick. The delay saturates at the
// largest value a record can hold.
func (c *Capture) Tick() {
	if c.delay < math.MaxUint16 {
		c.delay++
	}
}

// Delay returns the ticks accumulated since the last record.
func (c *Capture) Delay() uint16 { return c.delay }

func (c *Capture) append(reg, value byte) {
	if len(c.buf)+RecordSize > cap(c.buf) {
		c.dropped++
		return
	}
	c.buf = append(c.buf, reg, value, byte(c.delay), byte(c.delay>>8))
	c.delay = 0
}

// Len returns the number of staged bytes.
func (c *Capture) Len() int { return len(c.buf) }

// Cap returns the staging buffer capacity in bytes.
func (c *Capture) Cap() int { return cap(c.buf) }

// Full reports whether the next record would be dropped.
func (c *Capture) Full() bool { return len(c.buf)+RecordSize > cap(c.buf) }

// Dropped returns how many records were lost to a full buffer.
func (c *Capture) Dropped() int { return c.dropped }

// Bytes returns the staged records. The slice aliases the buffer until the
// next Drain.
func (c *Capture) Bytes() []byte { return c.buf }

// Drain hands out the staged bytes and empties the buffer, so a caller can
// flush proactively and keep capturing. The pending delay is kept, so the next
// record still carries the true elapsed time.
func (c *Capture) Drain() []byte {
	ret := make([]byte, len(c.buf))
	copy(ret, c.buf)
	c.buf = c.buf[:0]
	return ret
}

// Records decodes the staged bytes.
func (c *Capture) Records() []Record {
	return DecodeRecords(c.buf)
}

// DecodeRecords decodes a raw capture stream; a trailing partial record is
// ignored.
func DecodeRecords(b []byte) []Record {
	ret := make([]Record, 0, len(b)/RecordSize)
	for ; len(b) >= RecordSize; b = b[RecordSize:] {
		ret = append(ret, Record{Reg: b[0], Value: b[1], Delay: binary.LittleEndian.Uint16(b[2:4])})
	}
	return ret
}

// Encode returns the 4-byte wire form of the record.
func (r Record) Encode() [RecordSize]byte {
	return [RecordSize]byte{r.Reg, r.Value, byte(r.Delay), byte(r.Delay >> 8)}
}
