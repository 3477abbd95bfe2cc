package workengine

import (
	"context"
	"fmt"
	"sync"
)

// Solution is a solved share returned by a backend's SolutionSender.
// The core does not interpret it beyond forwarding it; share
// difficulty arithmetic and chain validation are external concerns.
type Solution struct {
	BackendID string
	Payload   interface{}
}

// Generator is the per-backend handle for pulling work. Its NextWork
// yields the next non-exhausted Engine, not a unit of work: the caller
// draws work from that Engine through Engine.NextWork. It also forwards
// the Reschedule hint.
type Generator struct {
	BackendID string
	receiver  *EngineReceiver
}

// NextWork yields the next usable Engine for this backend, suspending
// until one is available or ctx is done.
func (g *Generator) NextWork(ctx context.Context) (Engine, bool) {
	return g.receiver.NextWork(ctx)
}

// Reschedule forwards the reschedule hint to the underlying receiver.
func (g *Generator) Reschedule() { g.receiver.Reschedule() }

// SolutionSender accepts solved shares from one backend and forwards
// them on a shared, multi-producer channel drained by the upstream
// submission component obtained via Hub.Solutions.
type SolutionSender struct {
	BackendID string
	solutions chan<- Solution
}

// Submit forwards a solved share upstream. It blocks only if the
// downstream queue is bounded and full; ctx bounds that wait.
func (s *SolutionSender) Submit(ctx context.Context, payload interface{}) error {
	select {
	case s.solutions <- Solution{BackendID: s.BackendID, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hub owns the broadcast sender and the shared solution channel, and
// mints Generator/SolutionSender pairs for backends as they attach.
// The pair shares a backend identity so bookkeeping outside the core
// (e.g. per-ASIC hash-rate tracking, grounded on the donor's
// Client.hashRate accounting) can correlate work pulled with shares
// returned. Dropping either endpoint of a pair never affects the
// other: a Generator's receiver and a SolutionSender's channel
// reference are independent of each other once minted.
type Hub struct {
	sender   *EngineSender
	receiver *EngineReceiver

	mu        sync.Mutex
	solutions chan Solution
}

// NewHub creates a Hub around a freshly created broadcast pair, with a
// solution channel of the given buffer size (0 for unbuffered).
func NewHub(solutionBuffer int) *Hub {
	sender, receiver := NewBroadcast()
	return &Hub{
		sender:    sender,
		receiver:  receiver,
		solutions: make(chan Solution, solutionBuffer),
	}
}

// WithRecorder attaches a Recorder to the hub's underlying broadcast
// sender; see EngineSender.WithRecorder.
func (h *Hub) WithRecorder(r Recorder) *Hub {
	h.sender.WithRecorder(r)
	return h
}

// Broadcast publishes a new work engine labeled for bookkeeping.
func (h *Hub) Broadcast(label string, e Engine) { h.sender.Broadcast(label, e) }

// Close signals end-of-stream to every backend's Generator.
func (h *Hub) Close() { h.sender.Close() }

// Solutions returns the channel the upstream submission component
// should drain. It is shared by every backend's SolutionSender.
func (h *Hub) Solutions() <-chan Solution {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.solutions
}

// NewSolver atomically creates a Generator and SolutionSender pair for
// backendID, cloning a fresh receiver cursor so the new backend
// observes the hub's current engine on its first NextWork call.
func (h *Hub) NewSolver(backendID string) (*Generator, *SolutionSender, error) {
	if backendID == "" {
		return nil, nil, fmt.Errorf("workengine: backend id must not be empty")
	}
	clone := h.receiver.Clone()
	h.mu.Lock()
	solutions := h.solutions
	h.mu.Unlock()
	return &Generator{BackendID: backendID, receiver: clone},
		&SolutionSender{BackendID: backendID, solutions: solutions},
		nil
}
