package main

import (
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"

	"github.com/braiins-os/braiins-core-go/minerlog"
)

// initLogRotator creates a rotating log file at logFile and points
// minerlog's backend at it, mirroring the donor family's standard
// logRotator bootstrap (a rotator.Rotator wrapping the active log
// file, swapped in as the slog backend's writer).
func initLogRotator(logFile string) (*rotator.Rotator, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return nil, err
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return nil, err
	}
	minerlog.SetLogWriter(r)
	return r, nil
}
