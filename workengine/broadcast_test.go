package workengine

import (
	"context"
	"testing"
	"time"
)

type fakeEngine struct {
	exhausted bool
	name      string
}

func (f fakeEngine) IsExhausted() bool { return f.exhausted }
func (f fakeEngine) NextWork() (interface{}, bool) {
	if f.exhausted {
		return nil, false
	}
	return f.name, true
}

// TestOnlyExhaustedSuspendsForever is invariant 5: with only
// ExhaustedWork published, NextWork does not return within a bounded
// test tick.
func TestOnlyExhaustedSuspendsForever(t *testing.T) {
	_, recv := NewBroadcast()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, ok := recv.NextWork(ctx)
	if ok {
		t.Fatal("NextWork returned with only ExhaustedWork published")
	}
}

// TestPublishDeliversToAllReceivers is invariant 6.
func TestPublishDeliversToAllReceivers(t *testing.T) {
	send, recv1 := NewBroadcast()
	recv2 := recv1.Clone()

	e := fakeEngine{name: "E"}
	send.Broadcast("E", e)

	for i, r := range []*EngineReceiver{recv1, recv2} {
		got := r.Current()
		if got != Engine(e) {
			t.Fatalf("receiver %d: Current() = %v, want %v", i, got, e)
		}
	}

	// A further Current() call without a new publish returns the same
	// engine.
	if got := recv1.Current(); got != Engine(e) {
		t.Fatalf("Current() after no publish = %v, want %v", got, e)
	}
}

// TestLatestWinsOverIntermediate is invariant 7: two publishes before
// any read leave only the latter observable.
func TestLatestWinsOverIntermediate(t *testing.T) {
	send, recv := NewBroadcast()

	e1 := fakeEngine{name: "E1"}
	e2 := fakeEngine{name: "E2"}
	send.Broadcast("E1", e1)
	send.Broadcast("E2", e2)

	got := recv.Current()
	if got != Engine(e2) {
		t.Fatalf("Current() = %v, want %v (e1 must not be observed)", got, e2)
	}
}

// TestCloneSeesCurrentEvenIfOriginalConsumed is invariant 8.
func TestCloneSeesCurrentEvenIfOriginalConsumed(t *testing.T) {
	send, recv := NewBroadcast()

	e := fakeEngine{name: "E"}
	send.Broadcast("E", e)

	// Original consumes the value first.
	if got := recv.Current(); got != Engine(e) {
		t.Fatalf("Current() = %v, want %v", got, e)
	}

	clone := recv.Clone()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	got, ok := clone.NextWork(ctx)
	if !ok {
		t.Fatal("clone.NextWork: expected the already-published engine, got timeout")
	}
	if got != Engine(e) {
		t.Fatalf("clone.NextWork() = %v, want %v", got, e)
	}
}

// TestDroppingReceiversDoesNotBlockSender is invariant 9.
func TestDroppingReceiversDoesNotBlockSender(t *testing.T) {
	send, recv := NewBroadcast()
	recv = nil // simulate the receiver being dropped
	_ = recv

	done := make(chan struct{})
	go func() {
		send.Broadcast("E", fakeEngine{name: "E"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no receivers attached")
	}
}

func TestAwaitNextUnblocksOnClose(t *testing.T) {
	send, recv := NewBroadcast()

	done := make(chan bool, 1)
	go func() {
		_, ok := recv.AwaitNext(context.Background())
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	send.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("AwaitNext returned ok=true after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitNext did not unblock after Close")
	}
}

func TestAwaitNextUnblocksOnContextCancel(t *testing.T) {
	_, recv := NewBroadcast()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := recv.AwaitNext(ctx)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("AwaitNext returned ok=true after context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitNext did not unblock after context cancellation")
	}
}

type recordingRecorder struct {
	labels []string
}

func (r *recordingRecorder) Record(label string, exhausted bool, installedAt time.Time) {
	r.labels = append(r.labels, label)
}

func TestBroadcastRecordsSnapshotWhenRecorderAttached(t *testing.T) {
	send, _ := NewBroadcast()
	rec := &recordingRecorder{}
	send.WithRecorder(rec)

	send.Broadcast("job-1", fakeEngine{name: "E"})
	send.Broadcast("job-2", fakeEngine{name: "E2"})

	if len(rec.labels) != 2 || rec.labels[0] != "job-1" || rec.labels[1] != "job-2" {
		t.Fatalf("recorder labels = %v, want [job-1 job-2]", rec.labels)
	}
}
