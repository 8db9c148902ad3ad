// Package engine runs the per channel effect state machines of the tracker.
// Every tick, each effect kind is advanced over the 9 channels in a fixed
// order, and the resulting register writes go through an opl.Chip.
package engine

import (
	"github.com/opltrack/opltrack"
	"github.com/opltrack/opltrack/opl"
)

const numChannels = opltrack.NumChannels

// Engine owns one slot of every effect kind per channel. The slots are
// independent: several kinds that change the pitch (or the volume) of a
// channel can be active at the same time, in which case the kind that runs
// later in the tick wins. Engine is not safe for concurrent use; the frame
// loop is expected to be its only caller.
type Engine struct {
	chip *opl.Chip
	bank opltrack.Bank
	rate Fixed

	base   [numChannels]opltrack.Voice
	volume [numChannels]int
	last   [numChannels][opltrack.NumEffectKinds]opltrack.Effect

	arp       [numChannels]arpeggio
	porta     [numChannels]portamento
	volslide  [numChannels]volumeSlide
	vibrato   [numChannels]vibrato
	notecut   [numChannels]noteCut
	notedelay [numChannels]noteDelay
	retrigger [numChannels]retrigger
	tremolo   [numChannels]tremolo
	finepitch [numChannels]finePitch
}

// New returns an engine driving chip with the instruments of bank. An empty
// bank selects the default bank.
func New(chip *opl.Chip, bank opltrack.Bank) *Engine {
	if chip == nil {
		chip = opl.NewChip(nil)
	}
	if len(bank) == 0 {
		bank = opltrack.DefaultBank()
	}
	return &Engine{chip: chip, bank: bank, rate: One}
}

// Chip returns the chip the engine writes to.
func (e *Engine) Chip() *opl.Chip { return e.chip }

// SetTickRate sets how many effect ticks elapse per call of Tick. Zero
// restores the default of One.
func (e *Engine) SetTickRate(rate Fixed) {
	if rate == 0 {
		rate = One
	}
	e.rate = rate
}

// TickRate returns the effect ticks advanced per call of Tick.
func (e *Engine) TickRate() Fixed { return e.rate }

// Tick runs one frame: every kind over all channels, in the order of the
// EffectKind constants. While exporting, the delay of the capture is advanced
// after the effects have written.
func (e *Engine) Tick() {
	for ch := 0; ch < numChannels; ch++ {
		e.processArpeggio(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processPortamento(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processVolumeSlide(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processVibrato(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processNoteCut(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processNoteDelay(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processRetrigger(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processTremolo(ch)
	}
	for ch := 0; ch < numChannels; ch++ {
		e.processFinePitch(ch)
	}
	if c := e.chip.Capture(); c != nil {
		c.Tick()
	}
}

// Trigger strikes a voice on a channel: note off, patch, volume and note on.
// The voice becomes the base the effects of the channel are armed from and
// the running effects continue around it. The guards of the arpeggio and retrigger slots are set again so they do not
// strike a second time in this tick, and the effect markers of the channel
// are cleared so the next Apply arms unconditionally.
func (e *Engine) Trigger(ch int, v opltrack.Voice) {
	if !opltrack.ValidChannel(ch) {
		return
	}
	v = v.Clamped()
	e.base[ch] = v
	e.strike(ch, v)
	e.rebase(ch, v)
	e.arp[ch].justTriggered = true
	e.retrigger[ch].justTriggered = true
	e.last[ch] = [opltrack.NumEffectKinds]opltrack.Effect{}
}

// rebase moves the running effects of the channel onto a newly triggered
// voice, so they continue around the new note and volume.
func (e *Engine) rebase(ch int, v opltrack.Voice) {
	e.arp[ch].voice = v
	e.porta[ch].voice = v
	e.volslide[ch].current = v.Volume
	e.vibrato[ch].note = v.Note
	e.retrigger[ch].voice = v
	e.tremolo[ch].volume = v.Volume
	e.finepitch[ch].note = v.Note
}

// Release keys the channel off. The effects stay armed.
func (e *Engine) Release(ch int) {
	if !opltrack.ValidChannel(ch) {
		return
	}
	e.chip.NoteOff(ch)
	e.volume[ch] = 0
}

// Base returns the voice the effects of the channel are armed from.
func (e *Engine) Base(ch int) opltrack.Voice {
	if !opltrack.ValidChannel(ch) {
		return opltrack.Voice{}
	}
	return e.base[ch]
}

// Arm (re)starts the slot of the effect's kind on the channel, taking note,
// instrument and volume from the channel's base voice.
func (e *Engine) Arm(ch int, fx opltrack.Effect) {
	if !opltrack.ValidChannel(ch) || fx == nil {
		return
	}
	b := e.base[ch]
	switch fx := fx.(type) {
	case opltrack.Arpeggio:
		e.arp[ch].arm(fx, b)
	case opltrack.Portamento:
		e.porta[ch].arm(fx, b)
	case opltrack.VolumeSlide:
		e.volslide[ch].arm(fx, b)
	case opltrack.Vibrato:
		e.vibrato[ch].arm(fx, b)
	case opltrack.NoteCut:
		e.notecut[ch].arm(fx)
	case opltrack.NoteDelay:
		e.notedelay[ch].arm(fx)
	case opltrack.Retrigger:
		e.retrigger[ch].arm(fx, b)
	case opltrack.Tremolo:
		e.tremolo[ch].arm(fx, b)
	case opltrack.FinePitch:
		e.finepitch[ch].arm(fx, b)
		e.chip.NoteOnDetuned(ch, b.Note, fx.Detune)
	default:
		return
	}
	e.last[ch][fx.Kind()] = fx
}

// Apply arms fx unless it equals the effect last armed for its kind on the
// channel, so that an effect column repeated row after row keeps running
// instead of restarting. It reports whether the effect was armed.
func (e *Engine) Apply(ch int, fx opltrack.Effect) bool {
	if !opltrack.ValidChannel(ch) || fx == nil {
		return false
	}
	k := fx.Kind()
	if k < 0 || k >= opltrack.NumEffectKinds {
		return false
	}
	if e.last[ch][k] == fx && e.Active(ch, k) {
		return false
	}
	e.Arm(ch, fx)
	return true
}

// Disarm stops one effect kind on a channel. Nothing is written; the
// channel keeps the pitch and volume the effect last set.
func (e *Engine) Disarm(ch int, kind opltrack.EffectKind) {
	if !opltrack.ValidChannel(ch) {
		return
	}
	switch kind {
	case opltrack.KindArpeggio:
		e.arp[ch].active = false
	case opltrack.KindPortamento:
		e.porta[ch].active = false
	case opltrack.KindVolumeSlide:
		e.volslide[ch].active = false
	case opltrack.KindVibrato:
		e.vibrato[ch].active = false
	case opltrack.KindNoteCut:
		e.notecut[ch].active = false
	case opltrack.KindNoteDelay:
		e.notedelay[ch].active = false
	case opltrack.KindRetrigger:
		e.retrigger[ch].active = false
	case opltrack.KindTremolo:
		e.tremolo[ch].active = false
	case opltrack.KindFinePitch:
		e.finepitch[ch].active = false
	default:
		return
	}
	e.last[ch][kind] = nil
}

// DisarmAll stops every effect of a channel.
func (e *Engine) DisarmAll(ch int) {
	for k := opltrack.EffectKind(0); k < opltrack.NumEffectKinds; k++ {
		e.Disarm(ch, k)
	}
}

// Active reports whether the slot of kind on the channel is armed.
func (e *Engine) Active(ch int, kind opltrack.EffectKind) bool {
	if !opltrack.ValidChannel(ch) {
		return false
	}
	switch kind {
	case opltrack.KindArpeggio:
		return e.arp[ch].active
	case opltrack.KindPortamento:
		return e.porta[ch].active
	case opltrack.KindVolumeSlide:
		return e.volslide[ch].active
	case opltrack.KindVibrato:
		return e.vibrato[ch].active
	case opltrack.KindNoteCut:
		return e.notecut[ch].active
	case opltrack.KindNoteDelay:
		return e.notedelay[ch].active
	case opltrack.KindRetrigger:
		return e.retrigger[ch].active
	case opltrack.KindTremolo:
		return e.tremolo[ch].active
	case opltrack.KindFinePitch:
		return e.finepitch[ch].active
	}
	return false
}

// Volume returns the volume sample last published for a channel, in 0..63.
// It is what a peak meter should display.
func (e *Engine) Volume(ch int) int {
	if !opltrack.ValidChannel(ch) {
		return 0
	}
	return e.volume[ch]
}

// Volumes returns the published volume samples of all channels.
func (e *Engine) Volumes() [numChannels]int { return e.volume }

// BeginExport starts capturing every register write into a new capture of
// the given capacity in bytes, instead of writing the hardware.
func (e *Engine) BeginExport(capacity int) {
	e.chip.BeginExport(opl.NewCapture(capacity))
}

// EndExport stops capturing and returns the capture, or nil if no export was
// running.
func (e *Engine) EndExport() *opl.Capture { return e.chip.EndExport() }

// Export plays script from a freshly reset chip and returns everything that
// was written, initialization included, so that the stream can be replayed
// on a chip in its power on state.
func (e *Engine) Export(script *opltrack.Script, capacity int) (*opl.Capture, error) {
	e.BeginExport(capacity)
	e.Reset()
	if err := opltrack.Play(e, script); err != nil {
		e.EndExport()
		return nil, err
	}
	return e.EndExport(), nil
}

// Exporting reports whether an export is running.
func (e *Engine) Exporting() bool { return e.chip.Exporting() }

// Panic silences the chip whatever state it is in: every voice is keyed off
// and muted with forced writes, every effect slot is disarmed, the published
// volumes are zeroed and the effect markers cleared. Calling it again has the
// same effect.
func (e *Engine) Panic() {
	e.chip.Panic()
	e.clear()
}

// Reset reinitializes the chip through the normal write path and clears all
// effect state, like Panic.
func (e *Engine) Reset() {
	e.chip.Reset()
	e.clear()
	e.base = [numChannels]opltrack.Voice{}
}

func (e *Engine) clear() {
	e.arp = [numChannels]arpeggio{}
	e.porta = [numChannels]portamento{}
	e.volslide = [numChannels]volumeSlide{}
	e.vibrato = [numChannels]vibrato{}
	e.notecut = [numChannels]noteCut{}
	e.notedelay = [numChannels]noteDelay{}
	e.retrigger = [numChannels]retrigger{}
	e.tremolo = [numChannels]tremolo{}
	e.finepitch = [numChannels]finePitch{}
	e.volume = [numChannels]int{}
	e.last = [numChannels][opltrack.NumEffectKinds]opltrack.Effect{}
}

// strike is the full note on sequence shared by triggers and the effects that
// retrigger the note.
func (e *Engine) strike(ch int, v opltrack.Voice) {
	e.chip.NoteOff(ch)
	e.chip.SetPatch(ch, e.bank.Instrument(v.Instrument))
	e.chip.SetVolume(ch, v.Volume)
	e.chip.NoteOn(ch, v.Note)
	e.volume[ch] = v.Volume
}
