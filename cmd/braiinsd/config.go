package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "braiinsd.conf"
	defaultLogFilename    = "braiinsd.log"
	defaultAPIListen      = "127.0.0.1:4028"
	defaultHTTPListen     = "127.0.0.1:8080"
	defaultGRPCListen     = "127.0.0.1:9090"
	defaultStoreFilename  = "braiinsd.db"
	defaultLimiterRate    = 5.0
	defaultLimiterBurst   = 10
)

// config holds the host binary's runtime parameters, parsed from the
// command line via go-flags, the way the donor family of mining-node
// daemons bootstraps itself. The configfile option is accepted but no
// config file is read.
type config struct {
	HomeDir     string  `short:"A" long:"appdata" description:"Path to application home directory"`
	ConfigFile  string  `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir      string  `long:"logdir" description:"Directory to log output"`
	Signature   string  `long:"signature" description:"Miner signature reported by the version command" default:"braiins-core-go"`
	Version     string  `long:"version" description:"Miner version reported by the version command" default:"1.0.0"`
	APIVersion  string  `long:"apiversion" description:"API version reported by the version command" default:"3.7"`
	APIListen   string  `long:"apilisten" description:"Address for the line-oriented monitoring API socket" default:"127.0.0.1:4028"`
	HTTPListen  string  `long:"httplisten" description:"Address for the HTTP dashboard" default:"127.0.0.1:8080"`
	GRPCListen  string  `long:"grpclisten" description:"Address for the gRPC control plane" default:"127.0.0.1:9090"`
	StorePath   string  `long:"storepath" description:"Path to the snapshot store database file"`
	LimiterRate float64 `long:"limiterrate" description:"Commands per second allowed per command name" default:"5"`
	LimiterBurst int    `long:"limiterburst" description:"Burst headroom for the command rate limiter" default:"10"`
	Debug       bool    `long:"debug" description:"Enable trace-level logging"`
}

// defaultHomeDir returns the standard per-OS application data
// directory for this daemon.
func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".braiinsd")
}

// loadConfig parses command-line flags into a config, filling in
// defaults for anything left unset. It does not read a config file.
func loadConfig() (*config, error) {
	cfg := config{
		HomeDir:      defaultHomeDir(),
		APIListen:    defaultAPIListen,
		HTTPListen:   defaultHTTPListen,
		GRPCListen:   defaultGRPCListen,
		LimiterRate:  defaultLimiterRate,
		LimiterBurst: defaultLimiterBurst,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.HomeDir, "logs")
	}
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(cfg.HomeDir, defaultStoreFilename)
	}
	if err := os.MkdirAll(cfg.HomeDir, 0700); err != nil {
		return nil, fmt.Errorf("create home directory: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &cfg, nil
}
