package sim

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/feralworks/mobcore/internal/event"
)

// Runner drives the fixed-step simulation: every registered actor
// advances once per tick on the runner's goroutine, then the tick's
// events are drained to consumers and step hooks run. Actors joined
// or removed by consumers and hooks take effect the same tick.
type Runner struct {
	dt    float64
	queue *event.Queue

	actors map[uint32]*Actor
	order  []uint32

	consumers []func(event.Event)
	hooks     []func(dt float64)

	ticker *time.Ticker
	stopCh chan struct{}

	tick uint64
}

// NewRunner creates a runner stepping 1/tickRate seconds per tick.
func NewRunner(tickRate int) *Runner {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &Runner{
		dt:     1.0 / float64(tickRate),
		queue:  event.NewQueue(),
		actors: make(map[uint32]*Actor, 64),
		stopCh: make(chan struct{}),
	}
}

// Emit returns the sink actors publish events into.
func (r *Runner) Emit() event.EmitFunc {
	return r.queue.Emit
}

// AddConsumer registers a drain target for each tick's events.
func (r *Runner) AddConsumer(fn func(event.Event)) {
	r.consumers = append(r.consumers, fn)
}

// AddHook registers a per-tick callback run after the event drain.
func (r *Runner) AddHook(fn func(dt float64)) {
	r.hooks = append(r.hooks, fn)
}

// Add registers an actor. Update order follows actor IDs so a run is
// reproducible regardless of map iteration.
func (r *Runner) Add(a *Actor) {
	if _, ok := r.actors[a.ID()]; ok {
		return
	}
	r.actors[a.ID()] = a
	r.order = append(r.order, a.ID())
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
}

// Remove drops an actor from the update loop.
func (r *Runner) Remove(id uint32) {
	if _, ok := r.actors[id]; !ok {
		return
	}
	delete(r.actors, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Actor returns a registered actor, or nil.
func (r *Runner) Actor(id uint32) *Actor {
	return r.actors[id]
}

func (r *Runner) Count() int { return len(r.actors) }

// Dt returns the fixed step in seconds.
func (r *Runner) Dt() float64 { return r.dt }

// Tick returns the number of completed steps.
func (r *Runner) Tick() uint64 { return r.tick }

// Step advances the simulation one tick. Exposed for tests and for
// headless script execution; Run calls it on a wall-clock ticker.
func (r *Runner) Step(dt float64) {
	// Iterate a snapshot: consumers may remove actors mid-drain and
	// hooks may add new ones for the next tick.
	ids := make([]uint32, len(r.order))
	copy(ids, r.order)

	for _, id := range ids {
		if a, ok := r.actors[id]; ok {
			a.Update(dt)
		}
	}

	r.queue.Drain(func(ev event.Event) {
		for _, fn := range r.consumers {
			fn(ev)
		}
	})

	for _, fn := range r.hooks {
		fn(dt)
	}
	r.tick++
}

// Start runs the simulation loop (blocks until context is canceled).
func (r *Runner) Start(ctx context.Context) error {
	r.ticker = time.NewTicker(time.Duration(r.dt * float64(time.Second)))
	defer r.ticker.Stop()

	slog.Info("simulation started", "dt", r.dt, "actors", r.Count())

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping")
			return ctx.Err()

		case <-r.stopCh:
			slog.Info("simulation stopped")
			return nil

		case <-r.ticker.C:
			r.Step(r.dt)
		}
	}
}

// Stop halts the simulation loop.
func (r *Runner) Stop() {
	close(r.stopCh)
}
