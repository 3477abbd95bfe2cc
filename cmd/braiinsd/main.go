// Command braiinsd assembles the core work-distribution fabric,
// Stratum V2 framing, and monitoring-API dispatcher into a runnable
// node: a demonstration host, not part of the core contracts the rest
// of this module implements.
package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/braiins-os/braiins-core-go/minerapi"
	"github.com/braiins-os/braiins-core-go/minerlog"
	"github.com/braiins-os/braiins-core-go/ratelimit"
	"github.com/braiins-os/braiins-core-go/store"
	"github.com/braiins-os/braiins-core-go/workengine"
)

func randomKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate random key: %w", err)
	}
	return key, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rotator, err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		return fmt.Errorf("init log rotator: %w", err)
	}
	defer rotator.Close()

	log := minerlog.NewSubsystem("BRNS")
	log.Infof("starting braiinsd, home=%s", cfg.HomeDir)

	snapshotStore, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer snapshotStore.Close()

	hub := workengine.NewHub(64)
	hub.WithRecorder(snapshotStore)

	handler := newNodeHandler(hub, snapshotStore)
	limiter := ratelimit.New(cfg.LimiterRate, cfg.LimiterBurst)
	dispatcher := minerapi.NewDispatcher(handler, cfg.Signature, cfg.Version, cfg.APIVersion,
		minerapi.WithLimiter(limiter),
		minerapi.WithLogger(minerlog.NewSubsystem("DISP")))

	apiListener, err := net.Listen("tcp", cfg.APIListen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.APIListen, err)
	}
	defer apiListener.Close()
	go serveAPI(apiListener, dispatcher, minerlog.NewSubsystem("API "))

	sessionKey, err := randomKey(32)
	if err != nil {
		return err
	}
	csrfKey, err := randomKey(32)
	if err != nil {
		return err
	}
	dash := newDashboard(dispatcher, hub, sessionKey, csrfKey, minerlog.NewSubsystem("HTTP"))
	httpServer := &http.Server{Addr: cfg.HTTPListen, Handler: dash.router()}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server error: %v", err)
		}
	}()
	defer httpServer.Close()

	grpcListener, err := net.Listen("tcp", cfg.GRPCListen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GRPCListen, err)
	}
	defer grpcListener.Close()
	grpcServer := newGRPCServer(dispatcher)
	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Errorf("grpc server error: %v", err)
		}
	}()
	defer grpcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Infof("shutting down")
	return nil
}

// serveAPI accepts line-oriented monitoring-API connections and hands
// each to its own apiSession, the way the donor endpoint loop accepts
// pool-client connections and hands each to a Client.
func serveAPI(l net.Listener, dispatcher *minerapi.Dispatcher, log minerlog.Logger) {
	for {
		conn, err := l.Accept()
		if err != nil {
			log.Errorf("accept error: %v", err)
			return
		}
		session := newAPISession(conn, dispatcher, log)
		go session.serve()
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
