// Package vgm writes captured register streams as VGM 1.51 logs for a YM3812,
// the format most OPL2 players and hardware streamers accept, and reads them
// back.
package vgm

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/opl"
)

const (
	// SampleRate is the fixed VGM time base; all waits are in samples.
	SampleRate = 44100

	// DefaultClock is the YM3812 clock of the usual 3.58 MHz crystal.
	DefaultClock = 3579545

	Version    = 0x151
	HeaderSize = 0x80
)

// VGM command bytes
const (
	cmdYM3812   = 0x5A
	cmdWait     = 0x61
	cmdWait735  = 0x62
	cmdWait882  = 0x63
	cmdEnd      = 0x66
	cmdWaitN    = 0x70 // 0x70..0x7F wait n+1 samples
	maxWait     = 0xFFFF
	offsetClock = 0x50
)

type (
	// Options of the writer. The zero value writes a 60 Hz log at
	// DefaultClock.
	Options struct {
		TickRate int    // ticks per second of the capture
		Clock    uint32 // chip clock in Hz
		// Tail is the number of ticks to wait after the last record, e.g. the
		// delay still pending when the export ended.
		Tail int
	}

	// File is a decoded log.
	File struct {
		Version      uint32
		Clock        uint32
		Rate         uint32
		TotalSamples uint32
		Writes       []Write
	}

	// Write is one register write at an absolute sample position.
	Write struct {
		Sample uint64
		Reg    byte
		Value  byte
	}
)

var ErrNotVGM = errors.New("invalid vgm header")

// Encode converts records into an uncompressed VGM log. The record delays are
// ticks; they are converted to samples keeping the running total exact, so a
// tick rate that does not divide 44100 does not drift.
func Encode(records []opl.Record, opts Options) []byte {
	rate := opts.TickRate
	if rate <= 0 {
		rate = opltrack.DefaultTickRate
	}
	clock := opts.Clock
	if clock == 0 {
		clock = DefaultClock
	}
	var (
		body    bytes.Buffer
		ticks   uint64
		samples uint64
	)
	advance := func(n int) {
		ticks += uint64(n)
		target := ticks * SampleRate / uint64(rate)
		writeWait(&body, target-samples)
		samples = target
	}
	for _, r := range records {
		advance(int(r.Delay))
		body.Write([]byte{cmdYM3812, r.Reg, r.Value})
	}
	if opts.Tail > 0 {
		advance(opts.Tail)
	}
	body.WriteByte(cmdEnd)

	header := make([]byte, HeaderSize)
	copy(header[0:4], "Vgm ")
	binary.LittleEndian.PutUint32(header[0x04:0x08], uint32(HeaderSize+body.Len()-0x04))
	binary.LittleEndian.PutUint32(header[0x08:0x0C], Version)
	binary.LittleEndian.PutUint32(header[0x18:0x1C], uint32(samples))
	binary.LittleEndian.PutUint32(header[0x24:0x28], uint32(rate))
	binary.LittleEndian.PutUint32(header[0x34:0x38], HeaderSize-0x34)
	binary.LittleEndian.PutUint32(header[offsetClock:offsetClock+4], clock)
	return append(header, body.Bytes()...)
}

func writeWait(w *bytes.Buffer, n uint64) {
	for n > 0 {
		switch {
		case n == 735:
			w.WriteByte(cmdWait735)
			return
		case n == 882:
			w.WriteByte(cmdWait882)
			return
		case n <= 16:
			w.WriteByte(cmdWaitN + byte(n-1))
			return
		}
		chunk := min(n, maxWait)
		w.Write([]byte{cmdWait, byte(chunk), byte(chunk >> 8)})
		n -= chunk
	}
}

// Compress gzips a log into the .vgz form.
func Compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w, err := gzip.NewWriterLevel(&b, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("could not compress vgm: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("could not compress vgm: %w", err)
	}
	return b.Bytes(), nil
}

// WriteTo encodes the records to w, gzipped if compress is set.
func WriteTo(w io.Writer, records []opl.Record, opts Options, compress bool) error {
	data := Encode(records, opts)
	if compress {
		var err error
		if data, err = Compress(data); err != nil {
			return err
		}
	}
	_, err := w.Write(data)
	return err
}

// Decode reads a .vgm or .vgz log. Only YM3812 writes and waits are
// understood; any other command is an error.
func Decode(data []byte) (*File, error) {
	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("could not decompress vgz: %w", err)
		}
		defer gz.Close()
		if data, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("could not decompress vgz: %w", err)
		}
	}
	if len(data) < 0x40 || !bytes.Equal(data[0:4], []byte("Vgm ")) {
		return nil, ErrNotVGM
	}
	f := &File{
		Version:      binary.LittleEndian.Uint32(data[0x08:0x0C]),
		TotalSamples: binary.LittleEndian.Uint32(data[0x18:0x1C]),
		Rate:         binary.LittleEndian.Uint32(data[0x24:0x28]),
	}
	if len(data) >= offsetClock+4 {
		f.Clock = binary.LittleEndian.Uint32(data[offsetClock : offsetClock+4])
	}
	start := 0x40
	if off := binary.LittleEndian.Uint32(data[0x34:0x38]); off != 0 {
		start = 0x34 + int(off)
	}
	if start >= len(data) {
		return nil, fmt.Errorf("vgm data offset out of range")
	}
	var sample uint64
	for i := start; i < len(data); {
		cmd := data[i]
		switch {
		case cmd == cmdEnd:
			return f, nil
		case cmd == cmdYM3812:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated YM3812 write at offset %d", i)
			}
			f.Writes = append(f.Writes, Write{Sample: sample, Reg: data[i+1], Value: data[i+2]})
			i += 3
		case cmd == cmdWait:
			if i+2 >= len(data) {
				return nil, fmt.Errorf("vgm truncated wait at offset %d", i)
			}
			sample += uint64(binary.LittleEndian.Uint16(data[i+1 : i+3]))
			i += 3
		case cmd == cmdWait735:
			sample += 735
			i++
		case cmd == cmdWait882:
			sample += 882
			i++
		case cmd >= cmdWaitN && cmd <= cmdWaitN+0x0F:
			sample += uint64(cmd&0x0F) + 1
			i++
		default:
			return nil, fmt.Errorf("unsupported vgm command 0x%02X at offset %d", cmd, i)
		}
	}
	return nil, fmt.Errorf("vgm is missing the end of data command")
}
