package workengine

import (
	"context"
	"sync"
	"time"
)

// Recorder is an optional sink for engine-turnover bookkeeping. A
// broadcast's sender may be given a Recorder so that every successful
// Broadcast call is mirrored as a durable snapshot for the monitoring
// API. Broadcast calls Record synchronously, after the new engine is
// installed and readers are woken; Record has no error return, so a
// recording failure cannot fail the broadcast.
// store.Store implements this interface; workengine does not import
// store to avoid a dependency cycle between the broadcast primitive
// and its ambient persistence.
type Recorder interface {
	Record(label string, exhausted bool, installedAt time.Time)
}

// slot is the shared latest-value state: exactly one Engine at a time,
// guarded by a mutex, with a generation counter so readers can detect
// whether the value has changed since their last observation. A
// sync.Cond broadcasts the change to every waiting reader — this is
// the stdlib-idiomatic equivalent of the condition-variable design
// note in the work distribution specification; no third-party
// broadcast-channel library exists in this project's dependency set.
type slot struct {
	mu       sync.Mutex
	cond     *sync.Cond
	current  Engine
	gen      uint64
	closed   bool
	recorder Recorder
}

func newSlot() *slot {
	s := &slot{current: ExhaustedWork}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// NewBroadcast creates a fresh EngineSender/EngineReceiver pair backed
// by a new slot, initialized to ExhaustedWork.
func NewBroadcast() (*EngineSender, *EngineReceiver) {
	s := newSlot()
	return &EngineSender{slot: s}, &EngineReceiver{slot: s}
}

// EngineSender is the single-writer handle into a broadcast slot.
type EngineSender struct {
	slot *slot
}

// WithRecorder attaches a Recorder that mirrors every future Broadcast
// call as a durable snapshot. It returns the sender for chaining.
func (s *EngineSender) WithRecorder(r Recorder) *EngineSender {
	s.slot.mu.Lock()
	s.slot.recorder = r
	s.slot.mu.Unlock()
	return s
}

// Broadcast atomically replaces the current engine and wakes every
// suspended reader. It never waits on readers; if a Recorder is
// attached, Broadcast returns once its Record call returns. Calling
// Broadcast after Close is
// a programming error: the sender is expected to outlive all readers.
func (s *EngineSender) Broadcast(label string, e Engine) {
	s.slot.mu.Lock()
	if s.slot.closed {
		s.slot.mu.Unlock()
		panic("workengine: Broadcast called after Close")
	}
	s.slot.current = e
	s.slot.gen++
	recorder := s.slot.recorder
	s.slot.mu.Unlock()
	s.slot.cond.Broadcast()

	if recorder != nil {
		recorder.Record(label, e.IsExhausted(), time.Now())
	}
}

// Close signals end-of-stream to every receiver. Readers currently
// suspended in AwaitNext wake and observe (nil, false); future calls
// do the same without suspending, except that a receiver that has not
// yet observed the last published engine gets that engine once first.
// Dropping all receivers first, then
// calling Close, is always safe and never blocks.
func (s *EngineSender) Close() {
	s.slot.mu.Lock()
	s.slot.closed = true
	s.slot.mu.Unlock()
	s.slot.cond.Broadcast()
}

// EngineReceiver is a cloneable, many-reader handle into a broadcast
// slot. Each receiver holds its own cursor (the last generation it
// observed), so cloning produces an independent reader that sees the
// current value fresh even if the original has already consumed it.
type EngineReceiver struct {
	slot    *slot
	lastGen uint64
}

// Current synchronously peeks at the engine currently stored in the
// slot, without regard to whether this receiver has already observed
// it.
func (r *EngineReceiver) Current() Engine {
	r.slot.mu.Lock()
	defer r.slot.mu.Unlock()
	r.lastGen = r.slot.gen
	return r.slot.current
}

// Clone produces an independent receiver over the same slot, cursored
// at the slot's current generation. Its first NextWork call sees
// whatever is current right now (NextWork starts from Current), while
// a bare AwaitNext on the clone waits for the next publish after the
// clone point.
func (r *EngineReceiver) Clone() *EngineReceiver {
	r.slot.mu.Lock()
	defer r.slot.mu.Unlock()
	return &EngineReceiver{slot: r.slot, lastGen: r.slot.gen}
}

// AwaitNext suspends until the slot is replaced after this receiver's
// last observation, or the sender is closed, or ctx is done. It
// returns (engine, true) on a fresh publish, or (nil, false) if the
// sender closed or ctx was cancelled first.
func (r *EngineReceiver) AwaitNext(ctx context.Context) (Engine, bool) {
	// sync.Cond has no built-in cancellation; a small goroutine selects
	// on ctx.Done() and wakes every waiter so the wait loop below can
	// re-check ctx.Err().
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Hold the lock while broadcasting so this can never race
			// with the waiter checking ctx.Err() and entering Wait: if
			// ctx is already done, this goroutine blocks on Lock until
			// the waiter parks in cond.Wait (which releases the lock),
			// so the wakeup is never missed.
			r.slot.mu.Lock()
			r.slot.cond.Broadcast()
			r.slot.mu.Unlock()
		case <-stop:
		}
	}()

	r.slot.mu.Lock()
	defer r.slot.mu.Unlock()
	for r.slot.gen == r.lastGen && !r.slot.closed {
		if ctx.Err() != nil {
			return nil, false
		}
		r.slot.cond.Wait()
	}
	if ctx.Err() != nil {
		return nil, false
	}
	if r.slot.gen == r.lastGen && r.slot.closed {
		return nil, false
	}
	r.lastGen = r.slot.gen
	return r.slot.current, true
}

// Reschedule is a hint that a consumer would like the producer to
// republish sooner than it otherwise would. Its semantics are an open
// question upstream (nudge the producer, drop the current work, or
// both); this implementation is documented as a no-op and must be
// correctness-preserving when ignored.
func (r *EngineReceiver) Reschedule() {}

// NextWork implements the work-generation loop: return the current
// engine if it still has work, otherwise suspend for the next publish
// and retry. It returns (nil, false) once the sender closes or ctx is
// done while no usable engine is available.
func (r *EngineReceiver) NextWork(ctx context.Context) (Engine, bool) {
	e := r.Current()
	for {
		if !e.IsExhausted() {
			return e, true
		}
		next, ok := r.AwaitNext(ctx)
		if !ok {
			return nil, false
		}
		e = next
	}
}
