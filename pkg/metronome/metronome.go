package metronome

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	log "github.com/sirupsen/logrus"
)

const eventQueueMaxSize = 100

var (
	// ErrInvalidInterval is returned by Start if the given interval is not
	// strictly positive.
	ErrInvalidInterval = errors.New("metronome interval must be greater than zero")
	// ErrNilTask is returned by Start if no task is given.
	ErrNilTask = errors.New("metronome task must not be nil")
	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("metronome task panicked")
)

// Task is the unit of work executed at every tick.
type Task func(ctx context.Context) error

// Stats are the counters of a metronome since it was started.
type Stats struct {
	Executed uint64
	Skipped  uint64
	Dropped  uint64
}

// Handle controls a running metronome. A Handle is returned by Start and
// must be stopped with Stop.
type Handle struct {
	name   string
	task   Task
	ticker ticker.Ticker
	clock  clock.Clock
	ctx    context.Context

	events chan Event
	quit   chan struct{}
	done   chan struct{}

	// mu serializes the stop flag with the decision to begin a tick.
	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
	running  atomic.Bool
	wg       sync.WaitGroup

	executed atomic.Uint64
	skipped  atomic.Uint64
	dropped  atomic.Uint64
}

// Option customizes a metronome created with Start.
type Option func(h *Handle)

// WithName sets the name reported in events and logs.
func WithName(name string) Option {
	return func(h *Handle) {
		h.name = name
	}
}

// WithTicker replaces the default ticker used as tick source.
func WithTicker(t ticker.Ticker) Option {
	return func(h *Handle) {
		h.ticker = t
	}
}

// WithClock replaces the clock used to timestamp events.
func WithClock(c clock.Clock) Option {
	return func(h *Handle) {
		h.clock = c
	}
}

// WithContext sets the context passed to every execution of the task.
// Stopping the metronome does not cancel it: an in-flight task is never
// interrupted.
func WithContext(ctx context.Context) Option {
	return func(h *Handle) {
		h.ctx = ctx
	}
}

// Start begins executing task every interval. The first execution happens
// after the first interval elapses. If a tick fires while the previous
// execution is still running, that tick is skipped, not queued.
func Start(interval time.Duration, task Task, opts ...Option) (*Handle, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if task == nil {
		return nil, ErrNilTask
	}

	h := &Handle{
		name:   "metronome",
		task:   task,
		events: make(chan Event, eventQueueMaxSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.ticker == nil {
		h.ticker = ticker.New(interval)
	}
	if h.clock == nil {
		h.clock = clock.NewDefaultClock()
	}
	if h.ctx == nil {
		h.ctx = context.Background()
	}

	h.ticker.Resume()
	h.wg.Add(1)
	go h.loop()

	go func() {
		h.wg.Wait()
		close(h.events)
		close(h.done)
	}()

	log.Debugf("metronome %s: started with interval %s", h.name, interval)
	return h, nil
}

// Name returns the name of the metronome.
func (h *Handle) Name() string {
	return h.name
}

// Events returns the channel where an Event is published after every
// execution of the task. The channel is closed once the metronome is stopped
// and the last in-flight execution has returned. Events are dropped, never
// buffered beyond the channel capacity, when nobody drains the channel.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Stop prevents any new tick from beginning. An in-flight execution is left
// to complete. Stopping an already stopped metronome is a no-op.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()

		close(h.quit)
		log.Debugf("metronome %s: stopped", h.name)
	})
}

// Wait blocks until the metronome has been stopped and its in-flight
// execution, if any, has returned.
func (h *Handle) Wait() {
	<-h.done
}

// Done returns a channel closed when Wait would return.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stats returns a copy of the metronome counters.
func (h *Handle) Stats() Stats {
	return Stats{
		Executed: h.executed.Load(),
		Skipped:  h.skipped.Load(),
		Dropped:  h.dropped.Load(),
	}
}

func (h *Handle) loop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ticker.Ticks():
			if !h.beginTick() {
				h.ticker.Stop()
				return
			}
		case <-h.quit:
			h.ticker.Stop()
			return
		}
	}
}

// beginTick launches an execution unless the metronome is stopped or the
// previous execution is still running. It returns false only if stopped.
func (h *Handle) beginTick() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return false
	}
	if !h.running.CompareAndSwap(false, true) {
		h.skipped.Add(1)
		log.Debugf("metronome %s: previous tick still running, skipping", h.name)
		return true
	}

	h.wg.Add(1)
	go h.tick()
	return true
}

func (h *Handle) tick() {
	defer h.wg.Done()

	startedAt := h.clock.Now()
	err := h.runTask()
	h.executed.Add(1)

	event := Event{
		Name:      h.name,
		Type:      TickCompleted,
		StartedAt: startedAt,
		Duration:  h.clock.Now().Sub(startedAt),
	}
	if err != nil {
		event.Type = TickFailed
		event.Err = err
		log.WithError(err).Warnf("metronome %s: tick failed", h.name)
	}
	h.publish(event)

	h.running.Store(false)
}

func (h *Handle) runTask() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return h.task(h.ctx)
}

func (h *Handle) publish(event Event) {
	select {
	case h.events <- event:
	default:
		h.dropped.Add(1)
		log.Debugf("metronome %s: event queue full, dropping %s", h.name, event.Type)
	}
}
