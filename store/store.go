// Package store persists ambient bookkeeping -- engine-turnover
// snapshots used by the monitoring API's stats/estats commands --
// across process restarts, the way the donor pool client
// persists accounts, jobs, and accepted work via a bbolt database
// (ClientConfig.DB in pool/client.go).
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/coreos/bbolt"
)

var snapshotsBucket = []byte("snapshots")

// Snapshot is an immutable, serializable summary of one successful
// Broadcast call: when it happened, whether the installed engine was
// already exhausted, and a caller-supplied label identifying the
// originating job. It is pure ambient bookkeeping and never
// participates in broadcast correctness.
type Snapshot struct {
	Label       string    `json:"label"`
	Exhausted   bool      `json:"exhausted"`
	InstalledAt time.Time `json:"installed_at"`
}

// Store is a durable recorder of Snapshots, backed by a bbolt
// database file. It implements workengine.Recorder structurally
// (Record has the matching signature) without importing workengine,
// avoiding a dependency cycle between the broadcast primitive and its
// ambient persistence.
type Store struct {
	db  *bolt.DB
	log logger
}

type logger interface {
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Errorf(string, ...interface{}) {}

// Open creates or opens a bbolt database at path and ensures the
// snapshots bucket exists, mirroring the donor's openDB/createBuckets
// bootstrap pattern.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create snapshots bucket: %w", err)
	}
	return &Store{db: db, log: noopLogger{}}, nil
}

// SetLogger attaches a logger used to report best-effort write
// failures (see Record).
func (s *Store) SetLogger(l logger) { s.log = l }

// Close releases the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// Record persists one Snapshot. Per the error-handling policy a
// recording failure is logged and swallowed, never propagated to the
// broadcast hot path -- a durability hiccup in monitoring bookkeeping
// must never block mining work distribution.
func (s *Store) Record(label string, exhausted bool, installedAt time.Time) {
	snap := Snapshot{Label: label, Exhausted: exhausted, InstalledAt: installedAt}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, uint64(installedAt.UnixNano()))
		val, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put(key, val)
	})
	if err != nil {
		s.log.Errorf("store: failed to record snapshot %q: %v", label, err)
	}
}

// Recent returns up to n most recently recorded snapshots, newest
// first, for the stats/estats commands to report engine turnover.
func (s *Store) Recent(n int) ([]Snapshot, error) {
	var out []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("store: decode snapshot: %w", err)
			}
			out = append(out, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
