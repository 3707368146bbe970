package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/habitd/internal/model"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	// KindDayRollover fires just after local midnight so the new day can be started.
	KindDayRollover Kind = "day_rollover"
	// KindStatusExpiry clears a transient status line.
	KindStatusExpiry Kind = "status_expiry"
)

// RolloverID is the id used for the single pending day-rollover timer.
const RolloverID = "day-rollover"

// rolloverGrace keeps the timer from firing on the last instant of the old day.
const rolloverGrace = time.Second

// Event is a timer that fires once at TriggerAt. Scheduling an event whose ID is already
// queued replaces the queued one.
type Event struct {
	ID        string
	Kind      Kind
	TriggerAt time.Time
}

// NextRollover is the rollover event for the day containing now.
func NextRollover(now time.Time) Event {
	return Event{ID: RolloverID, Kind: KindDayRollover, TriggerAt: model.NextMidnight(now).Add(rolloverGrace)}
}

type entry struct {
	event Event
	seq   uint64
	index int
}

// timerHeap orders entries by trigger time, then by insertion so equal times keep FIFO order.
type timerHeap []*entry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].event.TriggerAt.Equal(h[j].event.TriggerAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].event.TriggerAt.Before(h[j].event.TriggerAt)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Engine delivers events on C when they come due. Delivery never blocks: if the consumer
// has not drained the buffer the event is counted in Dropped instead.
type Engine struct {
	mu      sync.Mutex
	queue   timerHeap
	byID    map[string]*entry
	seq     uint64
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped atomic.Uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		byID:   make(map[string]*entry),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.run()
}

// Stop halts the engine and closes C. Pending events are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *Engine) Schedule(ev Event) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	if ev.ID != "" {
		if old, ok := e.byID[ev.ID]; ok {
			old.event = ev
			e.seq++
			old.seq = e.seq
			heap.Fix(&e.queue, old.index)
			e.poke()
			return nil
		}
	}
	e.seq++
	ent := &entry{event: ev, seq: e.seq}
	heap.Push(&e.queue, ent)
	if ev.ID != "" {
		e.byID[ev.ID] = ent
	}
	e.poke()
	return nil
}

// Cancel drops a queued event. It reports whether one was found.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, ent.index)
	delete(e.byID, id)
	e.poke()
	return true
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if wait, ok := e.untilNext(); ok {
			timer.Reset(wait)
		} else {
			timer.Stop()
		}

		select {
		case <-timer.C:
			for _, ev := range e.takeDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

// poke wakes the run loop so it re-reads the head of the queue. Callers hold mu.
func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) untilNext() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return 0, false
	}
	return max(time.Until(e.queue[0].event.TriggerAt), 0), true
}

func (e *Engine) takeDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []Event
	for len(e.queue) > 0 && !e.queue[0].event.TriggerAt.After(now) {
		ent := heap.Pop(&e.queue).(*entry)
		if ent.event.ID != "" {
			delete(e.byID, ent.event.ID)
		}
		due = append(due, ent.event)
	}
	return due
}
