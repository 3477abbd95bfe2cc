// Package minerlog provides the structured logging backend used by the
// command dispatcher and the cmd/braiinsd host, a thin wrapper around
// github.com/Eacred/slog mirroring the donor pool client's
// log.Tracef/log.Errorf call sites (pool/client.go).
package minerlog

import (
	"io"
	"os"

	"github.com/Eacred/slog"
)

// Logger is the narrow logging surface packages in this module depend
// on, so they can be handed either a real subsystem logger or the
// no-op Disabled logger in tests without importing slog directly.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// backend is the process-wide slog.Backend every subsystem logger is
// created from. It writes to standard output by default; SetLogWriter
// redirects it (e.g. to a rotating file, as cmd/braiinsd wires up).
var backend = slog.NewBackend(os.Stdout)

// SetLogWriter points Logger values created by later NewSubsystem
// calls at w. Logger values created before the call keep writing to
// the writer their backend was created with.
func SetLogWriter(w io.Writer) {
	backend = slog.NewBackend(w)
}

// NewSubsystem creates a tagged Logger, e.g. NewSubsystem("DISP") for
// the command dispatcher, NewSubsystem("WKEN") for the work engine
// broadcast. Tags follow the donor's convention of short, fixed-width
// subsystem codes.
func NewSubsystem(tag string) Logger {
	return backend.Logger(tag)
}

// Disabled discards every log call; it is the Dispatcher's default so
// tests do not need to wire a real logger.
var Disabled Logger = disabledLogger{}

type disabledLogger struct{}

func (disabledLogger) Tracef(string, ...interface{}) {}
func (disabledLogger) Debugf(string, ...interface{}) {}
func (disabledLogger) Infof(string, ...interface{})  {}
func (disabledLogger) Warnf(string, ...interface{})  {}
func (disabledLogger) Errorf(string, ...interface{}) {}
