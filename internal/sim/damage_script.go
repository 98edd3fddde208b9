package sim

import (
	"log/slog"
	"sort"

	"github.com/feralworks/mobcore/internal/data"
)

// DamageEvent is one scripted hit: at a given sim time, every live
// actor of the archetype takes the amount once.
type DamageEvent struct {
	At          float64 // seconds from the start of the run
	ArchetypeID string
	Amount      float64
	Type        data.DamageType
}

// DamageScript feeds authored damage into the simulation on a fixed
// timeline. It stands in for the external combat-decision layer in
// headless runs, pushing bosses through their phases without a client
// attached.
type DamageScript struct {
	runner  *Runner
	pending []DamageEvent
	elapsed float64
}

// NewDamageScript wires itself into the runner as a step hook. Events
// fire in timeline order regardless of authoring order.
func NewDamageScript(runner *Runner, events []DamageEvent) *DamageScript {
	s := &DamageScript{
		runner:  runner,
		pending: append([]DamageEvent(nil), events...),
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].At < s.pending[j].At
	})
	runner.AddHook(s.step)
	return s
}

// step fires every event whose time has come. Deaths it causes drain
// on the next tick, like any other mid-hook event.
func (s *DamageScript) step(dt float64) {
	s.elapsed += dt
	for len(s.pending) > 0 && s.pending[0].At <= s.elapsed {
		s.fire(s.pending[0])
		s.pending = s.pending[1:]
	}
}

// fire visits targets in ID order so stagger rolls draw from the rng
// in a reproducible sequence.
func (s *DamageScript) fire(ev DamageEvent) {
	ids := make([]uint32, len(s.runner.order))
	copy(ids, s.runner.order)

	hit := 0
	for _, id := range ids {
		a := s.runner.actors[id]
		if a == nil || !a.Alive() || a.Archetype().ID != ev.ArchetypeID {
			continue
		}
		a.ApplyDamage(ev.Amount, ev.Type)
		hit++
	}
	slog.Debug("scripted damage applied",
		"archetype", ev.ArchetypeID,
		"amount", ev.Amount,
		"targets", hit)
}

// Remaining returns the number of events not yet fired.
func (s *DamageScript) Remaining() int {
	return len(s.pending)
}
