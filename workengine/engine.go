// Package workengine implements the work distribution fabric: a
// latest-value broadcast of the current mining work engine, and the
// per-backend generator/solution-sender pair that sits on top of it.
package workengine

// Engine is a polymorphic source of mining work derivable from one
// mining job. Implementations are hardware- and pool-specific and live
// outside this package; this package only ever holds them behind this
// interface so the broadcast primitive never needs to know their
// concrete shape.
//
// An Engine must be safe to share across goroutines without mutation:
// once installed in the broadcast slot it may be read concurrently by
// any number of backends.
type Engine interface {
	// IsExhausted reports whether this engine can still produce
	// further work. It is pure and may be called concurrently from
	// many readers.
	IsExhausted() bool

	// NextWork produces one opaque unit of work for a mining backend
	// to solve, or (nil, false) if the engine cannot produce any --
	// callers are expected to check IsExhausted first. This package
	// never looks inside the returned value; only the hardware- and
	// pool-specific Engine implementation and its downstream backend
	// agree on its concrete shape.
	NextWork() (work interface{}, ok bool)
}

// exhaustedWork is the distinguished singleton Engine that always
// reports exhausted. It is the initial value of every broadcast slot
// so readers observe a valid, well-typed engine before the first real
// one is published.
type exhaustedWork struct{}

func (exhaustedWork) IsExhausted() bool                     { return true }
func (exhaustedWork) NextWork() (work interface{}, ok bool) { return nil, false }

// ExhaustedWork is the shared ExhaustedWork singleton.
var ExhaustedWork Engine = exhaustedWork{}
