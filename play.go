package opltrack

type (
	// Player is the part of the effect engine a sequencer drives. Tick runs
	// one frame of every armed effect.
	Player interface {
		Trigger(ch int, v Voice)
		Release(ch int)
		Apply(ch int, e Effect) bool
		DisarmAll(ch int)
		Tick()
	}

	// Sequencer plays a script one tick at a time. It is useful when the
	// caller owns the frame clock, e.g. a real time loop.
	Sequencer struct {
		events []Event
		next   int
		tick   int
		length int
	}
)

// NewSequencer validates s and returns a sequencer positioned at tick 0.
func NewSequencer(s *Script) (*Sequencer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Sequencer{events: s.Sorted(), length: s.LengthInTicks()}, nil
}

// Step dispatches the events of the current tick to p, ticks p once and
// advances. It returns false, doing nothing, after the last tick.
func (q *Sequencer) Step(p Player) bool {
	if q.tick >= q.length {
		return false
	}
	for ; q.next < len(q.events) && q.events[q.next].Tick <= q.tick; q.next++ {
		dispatch(p, &q.events[q.next])
	}
	p.Tick()
	q.tick++
	return true
}

// Tick returns the index of the next tick to be played.
func (q *Sequencer) Tick() int { return q.tick }

// Length returns the number of ticks the sequencer plays.
func (q *Sequencer) Length() int { return q.length }

// Play runs the whole script on p, as fast as possible.
func Play(p Player, s *Script) error {
	q, err := NewSequencer(s)
	if err != nil {
		return err
	}
	for q.Step(p) {
	}
	return nil
}

func dispatch(p Player, e *Event) {
	if e.Stop {
		p.DisarmAll(e.Channel)
	}
	switch {
	case e.Note == NoteOff:
		p.Release(e.Channel)
	case e.Note != NoteNone:
		p.Trigger(e.Channel, e.Voice())
	}
	if e.Effect == nil {
		return
	}
	for _, fx := range e.Effect.Effects() {
		p.Apply(e.Channel, fx)
	}
}
