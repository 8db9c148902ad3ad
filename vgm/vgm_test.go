package vgm_test

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/opltrack/opltrack/opl"
	"github.com/opltrack/opltrack/vgm"
)

var records = []opl.Record{
	{Reg: 0xB0, Value: 0x21, Delay: 0},
	{Reg: 0x40, Value: 0x05, Delay: 3},
}

func TestHeader(t *testing.T) {
	data := vgm.Encode(records, vgm.Options{TickRate: 60, Tail: 1})
	if string(data[0:4]) != "Vgm " {
		t.Fatalf("got magic %q", data[0:4])
	}
	fields := []struct {
		name     string
		offset   int
		expected uint32
	}{
		{"eof offset", 0x04, uint32(len(data) - 4)},
		{"version", 0x08, 0x151},
		{"total samples", 0x18, 4 * 735},
		{"rate", 0x24, 60},
		{"data offset", 0x34, 0x4C},
		{"YM3812 clock", 0x50, vgm.DefaultClock},
	}
	for _, f := range fields {
		if got := binary.LittleEndian.Uint32(data[f.offset:]); got != f.expected {
			t.Errorf("%v: got %v, expected %v", f.name, got, f.expected)
		}
	}
}

func TestCommands(t *testing.T) {
	data := vgm.Encode(records, vgm.Options{TickRate: 60, Tail: 1})
	expected := []byte{
		0x5A, 0xB0, 0x21,
		0x61, 0x9D, 0x08, // 3 ticks = 2205 samples
		0x5A, 0x40, 0x05,
		0x62, // one 60 Hz frame
		0x66,
	}
	if body := data[vgm.HeaderSize:]; !bytes.Equal(body, expected) {
		t.Fatalf("got commands % X, expected % X", body, expected)
	}
}

func TestShortWaits(t *testing.T) {
	cases := []struct {
		name     string
		rate     int
		expected []byte
	}{
		{"50 Hz frame", 50, []byte{0x63}},
		{"one second", 1, []byte{0x61, 0x44, 0xAC}},
		{"drift free", 48, []byte{0x61, 0x96, 0x03}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := vgm.Encode(nil, vgm.Options{TickRate: c.rate, Tail: 1})
			body := data[vgm.HeaderSize:]
			if !bytes.Equal(body[:len(body)-1], c.expected) {
				t.Fatalf("got % X, expected % X", body, c.expected)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	for _, compress := range []bool{false, true} {
		var b bytes.Buffer
		if err := vgm.WriteTo(&b, records, vgm.Options{TickRate: 60, Tail: 1}, compress); err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		f, err := vgm.Decode(b.Bytes())
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		expected := []vgm.Write{{Sample: 0, Reg: 0xB0, Value: 0x21}, {Sample: 2205, Reg: 0x40, Value: 0x05}}
		if !reflect.DeepEqual(f.Writes, expected) {
			t.Fatalf("got writes %+v, expected %+v", f.Writes, expected)
		}
		if f.Version != vgm.Version || f.Clock != vgm.DefaultClock || f.Rate != 60 || f.TotalSamples != 2940 {
			t.Fatalf("got header %+v", f)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := vgm.Decode([]byte("hello")); err != vgm.ErrNotVGM {
		t.Fatalf("got %v, expected ErrNotVGM", err)
	}
	data := vgm.Encode(records, vgm.Options{})
	if _, err := vgm.Decode(data[:len(data)-1]); err == nil {
		t.Fatal("expected an error for a log without the end command")
	}
	data[vgm.HeaderSize] = 0xA0
	if _, err := vgm.Decode(data); err == nil {
		t.Fatal("expected an error for an unsupported command")
	}
}
