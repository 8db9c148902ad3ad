package opltrack_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/opltrack/opltrack"
)

func TestDefaultBank(t *testing.T) {
	bank := opltrack.DefaultBank()
	if len(bank) < 8 {
		t.Fatalf("got %v instruments, expected at least 8", len(bank))
	}
	for i, instr := range bank {
		if instr.Name == "" {
			t.Errorf("instrument %v has no name", i)
		}
	}
	bank[0].Name = "changed"
	if opltrack.DefaultBank()[0].Name == "changed" {
		t.Fatal("DefaultBank returned a shared bank")
	}
}

func TestBankFallsBackToFirstInstrument(t *testing.T) {
	bank := opltrack.DefaultBank()
	for _, id := range []int{-1, len(bank), 1000} {
		if bank.Instrument(id) != &bank[0] {
			t.Errorf("instrument %v did not fall back to instrument 0", id)
		}
	}
	if bank.Instrument(1) != &bank[1] {
		t.Error("instrument 1 not returned")
	}
	if opltrack.Bank(nil).Instrument(0) != nil {
		t.Error("empty bank returned an instrument")
	}
}

func TestReadBank(t *testing.T) {
	src := `
- name: Test
  modulator: {char: 0x21, level: 0x10, ad: 0xF0, sr: 0x0F, wave: 1}
  carrier: {char: 0x01, level: 0x80, ad: 0xF0, sr: 0x0F, wave: 0}
  feedback: 0x0C
  drum: true
`
	bank, err := opltrack.ReadBank(strings.NewReader(src))
	if err != nil {
		t.Fatalf("could not read bank: %v", err)
	}
	expected := opltrack.Instrument{
		Name:      "Test",
		Modulator: opltrack.Operator{Characteristic: 0x21, Level: 0x10, AttackDecay: 0xF0, SustainRelease: 0x0F, Waveform: 1},
		Carrier:   opltrack.Operator{Characteristic: 0x01, Level: 0x80, AttackDecay: 0xF0, SustainRelease: 0x0F},
		Feedback:  0x0C,
		Drum:      true,
	}
	if len(bank) != 1 || bank[0] != expected {
		t.Fatalf("got %+v, expected %+v", bank, expected)
	}
}

func TestReadBankErrors(t *testing.T) {
	if _, err := opltrack.ReadBank(strings.NewReader("[]")); !errors.Is(err, opltrack.ErrEmptyBank) {
		t.Errorf("got %v, expected ErrEmptyBank", err)
	}
	if _, err := opltrack.ReadBank(strings.NewReader("- {name: x, volume: 3}")); err == nil {
		t.Error("unknown field accepted")
	}
	if _, err := opltrack.LoadBank("testdata/no such bank.yml"); err == nil {
		t.Error("missing file accepted")
	}
}
