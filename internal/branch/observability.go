package branch

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// PathObserver is told about every completed path, kept or pruned.
type PathObserver interface {
	ObservePath(target string, depth int, pruned bool, duration time.Duration)
}

type PathLogger struct {
	logger *log.Logger
}

func NewPathLogger(logger *log.Logger) *PathLogger {
	return &PathLogger{logger: logger}
}

func (l *PathLogger) ObservePath(target string, depth int, pruned bool, duration time.Duration) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf("casegen_path target=%s depth=%d pruned=%t duration_ms=%.3f",
		target, depth, pruned, float64(duration.Microseconds())/1000.0)
}

// AsyncPathObserver forwards events to next from a single goroutine. Events
// that do not fit in the buffer are dropped and counted.
type AsyncPathObserver struct {
	next    PathObserver
	events  chan pathEvent
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type pathEvent struct {
	target   string
	depth    int
	pruned   bool
	duration time.Duration
}

func NewAsyncPathObserver(next PathObserver, buffer int) *AsyncPathObserver {
	if buffer <= 0 {
		buffer = 1
	}

	o := &AsyncPathObserver{
		next:   next,
		events: make(chan pathEvent, buffer),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for ev := range o.events {
			if o.next == nil {
				continue
			}
			o.next.ObservePath(ev.target, ev.depth, ev.pruned, ev.duration)
		}
	}()

	return o
}

func (o *AsyncPathObserver) ObservePath(target string, depth int, pruned bool, duration time.Duration) {
	if o == nil {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		o.dropped.Add(1)
		return
	}
	select {
	case o.events <- pathEvent{target: target, depth: depth, pruned: pruned, duration: duration}:
	default:
		o.dropped.Add(1)
	}
}

func (o *AsyncPathObserver) Dropped() uint64 {
	if o == nil {
		return 0
	}
	return o.dropped.Load()
}

// Close flushes buffered events and stops the worker. Later events are
// dropped.
func (o *AsyncPathObserver) Close() {
	if o == nil {
		return
	}
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.events)
		o.mu.Unlock()
		o.wg.Wait()
	})
}
