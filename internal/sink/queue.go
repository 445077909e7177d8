package sink

import (
	"sync"
	"sync/atomic"

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// DefaultQueueCapacity bounds the in-flight event buffer.
const DefaultQueueCapacity = 1024

// Queue decouples the decision path from the sink writer. Emit never
// blocks: when the buffer is full the incoming event is dropped
// (drop-newest) and counted. A single consumer goroutine drains the buffer
// into the wrapped sink; sink write failures are logged and dropped, never
// propagated.
type Queue struct {
	dest    Sink
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Uint64
	closed  atomic.Bool
}

// NewQueue starts a queue in front of dest. Capacity <= 0 uses the
// default.
func NewQueue(dest Sink, capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &Queue{
		dest:   dest,
		events: make(chan Event, capacity),
		done:   make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Emit enqueues an event without blocking. Events arriving after Close, or
// while the buffer is full, are dropped and counted.
func (q *Queue) Emit(e Event) {
	if q.closed.Load() {
		q.dropped.Add(1)
		return
	}
	select {
	case q.events <- e:
	default:
		n := q.dropped.Add(1)
		if n == 1 || n%1000 == 0 {
			common.LogDebug("metrics queue full, dropping event", common.Fields{
				"dropped_total": n,
			})
		}
	}
}

// Dropped returns how many events have been discarded so far.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close stops accepting events, drains the buffer into the sink, and
// closes the sink.
func (q *Queue) Close() error {
	if q.closed.Swap(true) {
		return nil
	}
	close(q.done)
	q.wg.Wait()
	return q.dest.Close()
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case e := <-q.events:
			q.write(e)
		case <-q.done:
			// Drain whatever is buffered, then stop.
			for {
				select {
				case e := <-q.events:
					q.write(e)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) write(e Event) {
	if err := q.dest.Emit(e); err != nil {
		common.LogError(err, "metrics sink write failed, event dropped", common.Fields{
			"event_id": e.ID,
		})
		q.dropped.Add(1)
	}
}
