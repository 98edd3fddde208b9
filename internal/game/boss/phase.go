package boss

import (
	"log/slog"

	"github.com/feralworks/mobcore/internal/data"
	"github.com/feralworks/mobcore/internal/event"
)

// ApplyPhaseFunc applies a phase's consequences to the owning actor:
// stat multipliers against base values and the pool swap. Injected by
// the simulation to avoid a dependency cycle.
type ApplyPhaseFunc func(phase *data.BossPhase, index int)

// PhaseManager walks a boss through its authored phases. Progression
// is one-way: health climbing back above a threshold never leaves a
// phase, and a single health drop through several thresholds enters
// only the deepest phase reached.
type PhaseManager struct {
	actorID uint32
	phases  []data.BossPhase
	index   int
	applyFn ApplyPhaseFunc
	emit    event.EmitFunc
}

// NewPhaseManager starts before the first phase (index -1).
func NewPhaseManager(actorID uint32, phases []data.BossPhase, applyFn ApplyPhaseFunc, emit event.EmitFunc) *PhaseManager {
	if emit == nil {
		emit = func(event.Event) {}
	}
	return &PhaseManager{
		actorID: actorID,
		phases:  phases,
		index:   -1,
		applyFn: applyFn,
		emit:    emit,
	}
}

// Evaluate checks the health fraction against the remaining phase
// thresholds and reports whether a new phase was entered. Thresholds
// are authored descending, so the qualifying phases past the current
// one form a prefix; the deepest qualifying phase wins and only its
// entry fires.
func (m *PhaseManager) Evaluate(healthFraction float64) bool {
	target := m.index
	for i := m.index + 1; i < len(m.phases); i++ {
		if healthFraction > m.phases[i].HealthThreshold {
			break
		}
		target = i
	}
	if target == m.index {
		return false
	}

	m.index = target
	phase := &m.phases[target]

	m.emit(event.Event{
		Kind:         event.KindPhaseEntered,
		ActorID:      m.actorID,
		PhaseIndex:   int32(target),
		PhaseName:    phase.Name,
		PhaseTrigger: phase.EnterTrigger,
	})
	if m.applyFn != nil {
		m.applyFn(phase, target)
	}

	slog.Debug("boss phase entered",
		"actorID", m.actorID,
		"phase", phase.Name,
		"index", target,
		"healthFraction", healthFraction)
	return true
}

// Restore jumps to a previously persisted phase index and re-applies
// its consequences without firing an entry event. Out-of-range
// indexes are ignored.
func (m *PhaseManager) Restore(index int) {
	if index < 0 || index >= len(m.phases) {
		return
	}
	m.index = index
	if m.applyFn != nil {
		m.applyFn(&m.phases[index], index)
	}
}

// Index returns the current phase index, -1 before the first phase.
func (m *PhaseManager) Index() int { return m.index }

// Active returns the current phase, nil before the first one.
func (m *PhaseManager) Active() *data.BossPhase {
	if m.index < 0 {
		return nil
	}
	return &m.phases[m.index]
}

// Terminal reports whether the last authored phase is active.
func (m *PhaseManager) Terminal() bool {
	return len(m.phases) > 0 && m.index == len(m.phases)-1
}
