package event

// Queue buffers events raised during a tick so consumers observe them
// after actor state has settled. Not safe for concurrent use: the
// simulation owns it and drains it on its own goroutine.
type Queue struct {
	pending []Event
}

func NewQueue() *Queue {
	return &Queue{pending: make([]Event, 0, 64)}
}

// Emit appends an event to the queue.
func (q *Queue) Emit(ev Event) {
	q.pending = append(q.pending, ev)
}

// Drain calls fn for every pending event in emission order, then
// empties the queue. Events emitted by fn itself are delivered in the
// same drain. The backing array is reused between ticks.
func (q *Queue) Drain(fn func(Event)) {
	for i := 0; i < len(q.pending); i++ {
		fn(q.pending[i])
	}
	q.pending = q.pending[:0]
}

func (q *Queue) Len() int {
	return len(q.pending)
}
