package opltrack

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// EffectKind enumerates the effect state machines. The order of the
	// constants is the order in which the engine runs them every tick; when
	// two kinds write the same register in the same tick, the later one wins.
	EffectKind int

	// Effect is the parameter set that arms one effect kind on a channel. It
	// is implemented by the value types Arpeggio, Portamento, VolumeSlide,
	// Vibrato, NoteCut, NoteDelay, Retrigger, Tremolo and FinePitch; all of
	// them are comparable.
	Effect interface {
		Kind() EffectKind
	}

	// ArpStyle selects the interval pattern of an arpeggio.
	ArpStyle int

	// SlideMode is the direction of portamento and volume slides.
	SlideMode int

	// Waveform is the modulation shape of vibrato and tremolo.
	Waveform int

	// Arpeggio cycles the note through an interval pattern, striking the note
	// again on every step. Speed is a nibble selecting the step length from
	// the arpeggio tick table.
	Arpeggio struct {
		Style ArpStyle
		Depth int
		Speed int
	}

	// Portamento slides the note one semitone every Speed ticks.
	Portamento struct {
		Mode   SlideMode
		Target int `yaml:",omitempty"`
		Speed  int
	}

	// VolumeSlide changes the volume by Speed units every tick.
	VolumeSlide struct {
		Mode   SlideMode
		Target int `yaml:",omitempty"`
		Speed  int
	}

	// Vibrato modulates the pitch by up to Depth semitones; the phase
	// advances one eighth of a cycle every Rate ticks.
	Vibrato struct {
		Rate     int
		Depth    int
		Waveform Waveform `yaml:",omitempty"`
	}

	// Tremolo modulates the volume by up to Depth units around the channel
	// volume.
	Tremolo struct {
		Rate     int
		Depth    int
		Waveform Waveform `yaml:",omitempty"`
	}

	// NoteCut releases the note after Tick ticks.
	NoteCut struct {
		Tick int
	}

	// NoteDelay strikes Voice after Tick ticks, once.
	NoteDelay struct {
		Tick  int
		Voice Voice
	}

	// Retrigger strikes the channel's note again every Speed ticks until
	// disarmed.
	Retrigger struct {
		Speed int
	}

	// FinePitch detunes the channel's note by Detune 1/32 semitone steps.
	FinePitch struct {
		Detune int
	}

	// EffectSpec is the effect column of a cue script event: any subset of
	// the kinds can be armed at once.
	EffectSpec struct {
		Arpeggio    *Arpeggio    `yaml:",omitempty"`
		Portamento  *Portamento  `yaml:",omitempty"`
		VolumeSlide *VolumeSlide `yaml:"volumeslide,omitempty"`
		Vibrato     *Vibrato     `yaml:",omitempty"`
		NoteCut     *NoteCut     `yaml:"notecut,omitempty"`
		NoteDelay   *NoteDelay   `yaml:"notedelay,omitempty"`
		Retrigger   *Retrigger   `yaml:",omitempty"`
		Tremolo     *Tremolo     `yaml:",omitempty"`
		FinePitch   *FinePitch   `yaml:"finepitch,omitempty"`
	}
)

const (
	KindArpeggio EffectKind = iota
	KindPortamento
	KindVolumeSlide
	KindVibrato
	KindNoteCut
	KindNoteDelay
	KindRetrigger
	KindTremolo
	KindFinePitch
	NumEffectKinds
)

const (
	ArpUp ArpStyle = iota
	ArpDown
	ArpMajor
	ArpMinor
	ArpMaj7
	ArpMin7
	ArpSus4
	ArpSus2
	ArpDim
	ArpAug
	ArpPower
	ArpUpDown
	ArpUp3
	ArpOctave
	ArpFifth
	ArpDouble
	NumArpStyles
)

const (
	SlideUp SlideMode = iota
	SlideDown
	SlideToTarget
)

const (
	Sine Waveform = iota
	Triangle
	Square
)

var kindNames = [NumEffectKinds]string{
	"arpeggio", "portamento", "volume slide", "vibrato", "note cut",
	"note delay", "retrigger", "tremolo", "fine pitch",
}

var arpStyleNames = [NumArpStyles]string{
	"up", "down", "major", "minor", "maj7", "min7", "sus4", "sus2",
	"dim", "aug", "power", "updown", "up3", "octave", "fifth", "double",
}

var slideModeNames = []string{"up", "down", "target"}

var waveformNames = []string{"sine", "triangle", "square"}

func (Arpeggio) Kind() EffectKind    { return KindArpeggio }
func (Portamento) Kind() EffectKind  { return KindPortamento }
func (VolumeSlide) Kind() EffectKind { return KindVolumeSlide }
func (Vibrato) Kind() EffectKind     { return KindVibrato }
func (NoteCut) Kind() EffectKind     { return KindNoteCut }
func (NoteDelay) Kind() EffectKind   { return KindNoteDelay }
func (Retrigger) Kind() EffectKind   { return KindRetrigger }
func (Tremolo) Kind() EffectKind     { return KindTremolo }
func (FinePitch) Kind() EffectKind   { return KindFinePitch }

func (k EffectKind) String() string {
	if k < 0 || k >= NumEffectKinds {
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
	return kindNames[k]
}

// Title returns the display name of the kind, e.g. "Volume Slide".
func (k EffectKind) Title() string {
	return cases.Title(language.English).String(k.String())
}

// ParseEffectKind accepts the names returned by String, with or without the
// space.
func ParseEffectKind(s string) (EffectKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if s == n || s == strings.ReplaceAll(n, " ", "") {
			return EffectKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

func (s ArpStyle) String() string {
	return enumName(arpStyleNames[:], int(s))
}

func (s ArpStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ArpStyle) UnmarshalText(text []byte) error {
	i, err := parseEnum(arpStyleNames[:], string(text))
	*s = ArpStyle(i)
	return err
}

func (m SlideMode) String() string {
	return enumName(slideModeNames, int(m))
}

func (m SlideMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SlideMode) UnmarshalText(text []byte) error {
	i, err := parseEnum(slideModeNames, string(text))
	*m = SlideMode(i)
	return err
}

func (w Waveform) String() string {
	return enumName(waveformNames, int(w))
}

func (w Waveform) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	i, err := parseEnum(waveformNames, string(text))
	*w = Waveform(i)
	return err
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return strconv.Itoa(v)
	}
	return names[v]
}

// parseEnum accepts either one of names or a plain number.
func parseEnum(names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if s == n {
			return i, nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not one of %v", s, names)
	}
	return v, nil
}

// Effects lists the effects set in s, in dispatch order.
func (s *EffectSpec) Effects() []Effect {
	var ret []Effect
	if s.Arpeggio != nil {
		ret = append(ret, *s.Arpeggio)
	}
	if s.Portamento != nil {
		ret = append(ret, *s.Portamento)
	}
	if s.VolumeSlide != nil {
		ret = append(ret, *s.VolumeSlide)
	}
	if s.Vibrato != nil {
		ret = append(ret, *s.Vibrato)
	}
	if s.NoteCut != nil {
		ret = append(ret, *s.NoteCut)
	}
	if s.NoteDelay != nil {
		ret = append(ret, *s.NoteDelay)
	}
	if s.Retrigger != nil {
		ret = append(ret, *s.Retrigger)
	}
	if s.Tremolo != nil {
		ret = append(ret, *s.Tremolo)
	}
	if s.FinePitch != nil {
		ret = append(ret, *s.FinePitch)
	}
	return ret
}

// Set stores e in the slot of its kind.
func (s *EffectSpec) Set(e Effect) {
	switch e := e.(type) {
	case Arpeggio:
		s.Arpeggio = &e
	case Portamento:
		s.Portamento = &e
	case VolumeSlide:
		s.VolumeSlide = &e
	case Vibrato:
		s.Vibrato = &e
	case NoteCut:
		s.NoteCut = &e
	case NoteDelay:
		s.NoteDelay = &e
	case Retrigger:
		s.Retrigger = &e
	case Tremolo:
		s.Tremolo = &e
	case FinePitch:
		s.FinePitch = &e
	}
}
