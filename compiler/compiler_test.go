package compiler_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opltrack/opltrack/compiler"
	"github.com/opltrack/opltrack/opl"
)

var records = []opl.Record{
	{Reg: 0xB0, Value: 0x21, Delay: 0},
	{Reg: 0x40, Value: 0x05, Delay: 3},
	{Reg: 0xB0, Value: 0x01, Delay: 0x102},
}

func TestStream(t *testing.T) {
	com, err := compiler.New("arpeggio")
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	files, err := com.Stream(records, 60)
	if err != nil {
		t.Fatalf("compiling failed: %v", err)
	}
	expected := map[string][]string{
		".h": {
			"#ifndef ARPEGGIO_H",
			"#define ARPEGGIO_SIZE 12",
			"#define ARPEGGIO_TICKS 261",
			"#define ARPEGGIO_TICK_RATE 60",
			"static const uint8_t arpeggio_data[ARPEGGIO_SIZE] = {",
			"    0xB0, 0x21, 0x00, 0x00, // tick 0\n",
			"    0x40, 0x05, 0x03, 0x00, // tick 3\n",
			"    0xB0, 0x01, 0x02, 0x01, // tick 261\n};",
		},
		".s": {
			".export _arpeggio_data, _arpeggio_size",
			"ARPEGGIO_TICK_RATE = 60",
			"_arpeggio_size:\n    .word 12",
			"    .byte $40, $05, $03, $00 ; tick 3",
		},
	}
	if len(files) != len(expected) {
		t.Fatalf("got %v files, expected %v", len(files), len(expected))
	}
	for ext, lines := range expected {
		for _, line := range lines {
			if !strings.Contains(files[ext], line) {
				t.Errorf("%v output is missing %q:\n%v", ext, line, files[ext])
			}
		}
	}
}

func TestEmptyStream(t *testing.T) {
	com, err := compiler.New("")
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	files, err := com.Stream(nil, 50, "stream.h")
	if err != nil {
		t.Fatalf("compiling failed: %v", err)
	}
	if !strings.Contains(files[".h"], "stream_data[STREAM_SIZE + 1]") {
		t.Fatalf("an empty stream should still declare a valid array:\n%v", files[".h"])
	}
	if _, ok := files[".s"]; ok {
		t.Fatal("got an assembly file although only the header was asked for")
	}
}

func TestUnknownTemplate(t *testing.T) {
	com, err := compiler.New("x")
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	if _, err := com.Stream(records, 60, "player.c"); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}

func TestNewFromTemplates(t *testing.T) {
	dir := t.TempDir()
	tmpl := `{{range .Rows}}{{.Reg}}:{{.Value}}@{{.Tick}} {{end}}{{.Name | upper}}`
	if err := os.WriteFile(filepath.Join(dir, "dump.txt"), []byte(tmpl), 0644); err != nil {
		t.Fatal(err)
	}
	com, err := compiler.NewFromTemplates("song", dir)
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	files, err := com.Stream(records, 60, "dump.txt")
	if err != nil {
		t.Fatalf("compiling failed: %v", err)
	}
	if expected := "176:33@0 64:5@3 176:1@261 SONG"; files[".txt"] != expected {
		t.Fatalf("got %q, expected %q", files[".txt"], expected)
	}
}

func TestBinary(t *testing.T) {
	expected := []byte{0xB0, 0x21, 0, 0, 0x40, 0x05, 3, 0, 0xB0, 0x01, 2, 1}
	if got := compiler.Binary(records); !bytes.Equal(got, expected) {
		t.Fatalf("got % X, expected % X", got, expected)
	}
}
