package meter_test

import (
	"math"
	"strings"
	"testing"

	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/meter"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestInstantAttack(t *testing.T) {
	m := meter.New(0, 0.5, 60)
	var v [opltrack.NumChannels]int
	v[0], v[4] = 63, 200
	m.Update(v)
	levels := m.Levels()
	if !near(levels[0], 1) || !near(levels[4], 1) || levels[1] != 0 {
		t.Fatalf("got levels %v", levels)
	}
	if !near(m.Peak(), 1) {
		t.Fatalf("got peak %v, expected 1", m.Peak())
	}
}

func TestRelease(t *testing.T) {
	m := meter.New(0, 0.5, 60)
	var v [opltrack.NumChannels]int
	v[2] = 63
	m.Update(v)
	v[2] = 0
	prev := m.Levels()[2]
	for i := 0; i < 30; i++ {
		m.Update(v)
		l := m.Levels()[2]
		if l >= prev || l <= 0 {
			t.Fatalf("tick %v: level went from %v to %v, expected a slow decay", i, prev, l)
		}
		prev = l
	}
	// after one time constant the level has decayed to about 1/e
	for i := 0; i < 60; i++ {
		m.Update(v)
	}
	if l := m.Levels()[2]; l > 0.4 {
		t.Fatalf("got level %v after 1.5 s", l)
	}
	m.Reset()
	if m.Peak() != 0 {
		t.Fatalf("got peak %v after reset", m.Peak())
	}
}

func TestSlowAttack(t *testing.T) {
	m := meter.New(1, 0, 60)
	var v [opltrack.NumChannels]int
	v[8] = 63
	m.Update(v)
	if l := m.Levels()[8]; l <= 0 || l > 0.1 {
		t.Fatalf("got level %v, expected a slow rise", l)
	}
	v[8] = 0
	m.Update(v)
	if l := m.Levels()[8]; l != 0 {
		t.Fatalf("got level %v, expected an instant release", l)
	}
}

func TestBars(t *testing.T) {
	m := meter.New(0, 0, 60)
	var v [opltrack.NumChannels]int
	v[0] = 63
	v[1] = 32
	m.Update(v)
	bars := strings.Split(m.Bars(4), "|")
	if len(bars) != opltrack.NumChannels {
		t.Fatalf("got %v bars", len(bars))
	}
	if bars[0] != "####" || bars[1] != "##.." || bars[2] != "...." {
		t.Fatalf("got bars %q", bars)
	}
}
