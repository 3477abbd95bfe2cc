package workengine

import (
	"context"
	"testing"
	"time"
)

func TestNewSolverRejectsEmptyBackendID(t *testing.T) {
	hub := NewHub(0)
	_, _, err := hub.NewSolver("")
	if err == nil {
		t.Fatal("NewSolver(\"\"): expected error, got nil")
	}
}

func TestGeneratorReceivesBroadcastWork(t *testing.T) {
	hub := NewHub(0)
	gen, _, err := hub.NewSolver("asic-1")
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	hub.Broadcast("job-1", fakeEngine{name: "E"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	e, ok := gen.NextWork(ctx)
	if !ok {
		t.Fatal("NextWork: expected an engine, got timeout")
	}
	if e != Engine(fakeEngine{name: "E"}) {
		t.Fatalf("NextWork() = %v, want fakeEngine{E}", e)
	}
}

func TestSolutionSenderForwardsToHubSolutions(t *testing.T) {
	hub := NewHub(1)
	_, sender, err := hub.NewSolver("asic-1")
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	if err := sender.Submit(context.Background(), "share-payload"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case sol := <-hub.Solutions():
		if sol.BackendID != "asic-1" || sol.Payload != "share-payload" {
			t.Fatalf("Solutions() = %+v, want {asic-1 share-payload}", sol)
		}
	default:
		t.Fatal("Solutions() had nothing queued")
	}
}

// TestMultipleSolversIndependent confirms dropping one backend's
// generator does not affect another backend's pair (the hub keeps
// minting independent receiver clones and shares only the solutions
// channel, which is itself multi-producer by design).
func TestMultipleSolversIndependent(t *testing.T) {
	hub := NewHub(2)
	gen1, sender1, _ := hub.NewSolver("asic-1")
	gen2, sender2, _ := hub.NewSolver("asic-2")
	gen1 = nil // simulate dropping the first backend's generator
	_ = gen1

	hub.Broadcast("job-1", fakeEngine{name: "E"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, ok := gen2.NextWork(ctx); !ok {
		t.Fatal("gen2.NextWork: expected an engine, got timeout")
	}

	if err := sender1.Submit(context.Background(), "from-1"); err != nil {
		t.Fatalf("sender1.Submit: %v", err)
	}
	if err := sender2.Submit(context.Background(), "from-2"); err != nil {
		t.Fatalf("sender2.Submit: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		sol := <-hub.Solutions()
		seen[sol.BackendID] = true
	}
	if !seen["asic-1"] || !seen["asic-2"] {
		t.Fatalf("seen = %v, want both asic-1 and asic-2", seen)
	}
}
