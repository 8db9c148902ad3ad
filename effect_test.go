package opltrack_test

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/opltrack/opltrack"
)

func TestEffectKindNames(t *testing.T) {
	for k := opltrack.EffectKind(0); k < opltrack.NumEffectKinds; k++ {
		parsed, err := opltrack.ParseEffectKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("%v did not parse back: %v, %v", k, parsed, err)
		}
	}
	if k, err := opltrack.ParseEffectKind("VolumeSlide"); err != nil || k != opltrack.KindVolumeSlide {
		t.Errorf("got %v, %v", k, err)
	}
	if _, err := opltrack.ParseEffectKind("wobble"); err == nil {
		t.Error("expected an error for an unknown kind")
	}
	if got := opltrack.KindNoteDelay.Title(); got != "Note Delay" {
		t.Errorf("got title %q, expected \"Note Delay\"", got)
	}
}

func TestEffectSpecOrder(t *testing.T) {
	var spec opltrack.EffectSpec
	spec.Set(opltrack.FinePitch{Detune: 3})
	spec.Set(opltrack.Tremolo{Rate: 1})
	spec.Set(opltrack.Arpeggio{Style: opltrack.ArpMinor})
	spec.Set(opltrack.NoteCut{Tick: 4})
	var kinds []opltrack.EffectKind
	for _, e := range spec.Effects() {
		kinds = append(kinds, e.Kind())
	}
	expected := []opltrack.EffectKind{opltrack.KindArpeggio, opltrack.KindNoteCut, opltrack.KindTremolo, opltrack.KindFinePitch}
	if !reflect.DeepEqual(kinds, expected) {
		t.Fatalf("got %v, expected %v", kinds, expected)
	}
}

func TestEffectSpecYAML(t *testing.T) {
	src := `
arpeggio: {style: 3, depth: 0, speed: 4}
portamento: {mode: target, target: 50, speed: 2}
tremolo: {rate: 2, depth: 8, waveform: triangle}
`
	var spec opltrack.EffectSpec
	if err := yaml.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatalf("could not decode: %v", err)
	}
	expected := []opltrack.Effect{
		opltrack.Arpeggio{Style: opltrack.ArpMinor, Speed: 4},
		opltrack.Portamento{Mode: opltrack.SlideToTarget, Target: 50, Speed: 2},
		opltrack.Tremolo{Rate: 2, Depth: 8, Waveform: opltrack.Triangle},
	}
	if got := spec.Effects(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("got %v, expected %v", got, expected)
	}
	out, err := yaml.Marshal(&spec)
	if err != nil {
		t.Fatalf("could not encode: %v", err)
	}
	var back opltrack.EffectSpec
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("could not decode %s: %v", out, err)
	}
	if !reflect.DeepEqual(back, spec) {
		t.Fatalf("got %+v after encoding, expected %+v", back, spec)
	}
}

func TestEnumRejectsUnknownName(t *testing.T) {
	var w opltrack.Waveform
	if err := w.UnmarshalText([]byte("sawtooth")); err == nil {
		t.Fatal("expected an error")
	}
	var m opltrack.SlideMode
	if err := m.UnmarshalText([]byte("Down")); err != nil || m != opltrack.SlideDown {
		t.Fatalf("got %v, %v", m, err)
	}
}
