package engine

import "github.com/opltrack/opltrack"

type (
	noteCut struct {
		active bool
		tick   int
		timer  timer
	}

	noteDelay struct {
		active    bool
		triggered bool
		tick      int
		voice     opltrack.Voice
		timer     timer
	}

	retrigger struct {
		active        bool
		justTriggered bool
		voice         opltrack.Voice
		speed         int
		timer         timer
	}

	// finePitch has no per tick behavior: the detune is written once when
	// armed.
	finePitch struct {
		active bool
		note   int
		detune int
	}
)

func (c *noteCut) arm(fx opltrack.NoteCut) {
	*c = noteCut{active: true, tick: param(fx.Tick)}
}

func (d *noteDelay) arm(fx opltrack.NoteDelay) {
	*d = noteDelay{active: true, tick: param(fx.Tick), voice: fx.Voice.Clamped()}
}

func (r *retrigger) arm(fx opltrack.Retrigger, base opltrack.Voice) {
	*r = retrigger{active: true, justTriggered: true, voice: base, speed: max(param(fx.Speed), 1)}
}

func (f *finePitch) arm(fx opltrack.FinePitch, base opltrack.Voice) {
	*f = finePitch{active: true, note: base.Note, detune: fx.Detune}
}

// processNoteCut keys the note off once tick ticks have elapsed.
func (e *Engine) processNoteCut(ch int) {
	c := &e.notecut[ch]
	if !c.active {
		return
	}
	if !c.timer.reached(e.rate, c.tick) {
		return
	}
	e.chip.NoteOff(ch)
	e.volume[ch] = 0
	c.active = false
}

// processNoteDelay strikes the delayed voice once. The slot then stays armed
// but does nothing until armed again.
func (e *Engine) processNoteDelay(ch int) {
	d := &e.notedelay[ch]
	if !d.active || d.triggered {
		return
	}
	if !d.timer.reached(e.rate, d.tick) {
		return
	}
	e.strike(ch, d.voice)
	d.triggered = true
}

// processRetrigger strikes the note again every speed ticks, until disarmed.
func (e *Engine) processRetrigger(ch int) {
	r := &e.retrigger[ch]
	if !r.active {
		return
	}
	if r.justTriggered {
		r.justTriggered = false
		return
	}
	if !r.timer.advance(e.rate, r.speed) {
		return
	}
	e.strike(ch, r.voice)
}

func (e *Engine) processFinePitch(ch int) {}
