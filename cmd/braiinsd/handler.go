package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/braiins-os/braiins-core-go/minerapi/response"
	"github.com/braiins-os/braiins-core-go/store"
	"github.com/braiins-os/braiins-core-go/workengine"
)

// nodeHandler implements minerapi.Handler for this demonstration host.
// It is held by the Dispatcher as a shared reference and its methods
// are invoked concurrently from many requests, so all mutable state
// here is protected by a mutex, the same discipline the donor Client
// type uses for its hashRate/authorized/subscribed fields.
type nodeHandler struct {
	startedAt time.Time
	hub       *workengine.Hub
	store     *store.Store

	mu        sync.Mutex
	devices   []response.Device
	pools     []response.Pool
}

func newNodeHandler(hub *workengine.Hub, st *store.Store) *nodeHandler {
	return &nodeHandler{
		startedAt: time.Now(),
		hub:       hub,
		store:     st,
		devices: []response.Device{
			{ASC: 0, Name: "ASC0", Enabled: response.Y, Status: "Alive"},
		},
		pools: []response.Pool{
			{POOL: 0, URL: "stratum2+tcp://pool.example:3336", Status: "Alive", Priority: 0, User: "worker.0"},
		},
	}
}

func (h *nodeHandler) HandlePools(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return response.Pools{Pools: append([]response.Pool(nil), h.pools...)}, nil
}

func (h *nodeHandler) HandleDevs(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return response.Devs{Devs: append([]response.Device(nil), h.devices...)}, nil
}

func (h *nodeHandler) HandleEdevs(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return response.Edevs{Devs: append([]response.Device(nil), h.devices...)}, nil
}

func (h *nodeHandler) HandleSummary(ctx context.Context) (response.Dispatch, error) {
	return response.Summary{
		Elapsed: int64(time.Since(h.startedAt).Seconds()),
	}, nil
}

func (h *nodeHandler) HandleConfig(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return response.Config{
		ASCCount:    len(h.devices),
		PoolCount:   len(h.pools),
		Strategy:    "failover",
		LogInterval: 5,
		Device:      "GSD",
	}, nil
}

func (h *nodeHandler) HandleDevDetails(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	details := make([]response.DevDetail, len(h.devices))
	for i, d := range h.devices {
		details[i] = response.DevDetail{ASC: d.ASC, Driver: "braiins-core-go", Kernel: "gsd", Model: d.Name}
	}
	return response.DevDetails{Details: details}, nil
}

// snapshotStats renders the store's recent engine-turnover snapshots
// as the freeform STATS rows the cgminer-API convention expects.
func (h *nodeHandler) snapshotStats() []map[string]interface{} {
	if h.store == nil {
		return nil
	}
	recent, err := h.store.Recent(20)
	if err != nil {
		return nil
	}
	rows := make([]map[string]interface{}, len(recent))
	for i, s := range recent {
		rows[i] = map[string]interface{}{
			"Label":       s.Label,
			"Exhausted":   s.Exhausted,
			"InstalledAt": s.InstalledAt.Unix(),
		}
	}
	return rows
}

func (h *nodeHandler) HandleStats(ctx context.Context) (response.Dispatch, error) {
	return response.Stats{Stats: h.snapshotStats()}, nil
}

func (h *nodeHandler) HandleEstats(ctx context.Context) (response.Dispatch, error) {
	return response.Estats{Stats: h.snapshotStats()}, nil
}

func (h *nodeHandler) HandleCoin(ctx context.Context) (response.Dispatch, error) {
	return response.Coin{Hashmethod: "SHA256d"}, nil
}

func (h *nodeHandler) HandleAscCount(ctx context.Context) (response.Dispatch, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return response.AscCount{Count: len(h.devices)}, nil
}

func (h *nodeHandler) HandleAsc(ctx context.Context, parameter interface{}) (response.Dispatch, error) {
	index, err := asInt(parameter)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.devices) {
		return nil, fmt.Errorf("asc index %d out of range", index)
	}
	return response.Asc{Device: h.devices[index]}, nil
}

func (h *nodeHandler) HandleLcd(ctx context.Context) (response.Dispatch, error) {
	return response.Lcd{Elapsed: int64(time.Since(h.startedAt).Seconds())}, nil
}

func asInt(parameter interface{}) (int, error) {
	switch v := parameter.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected an integer parameter, got %T", parameter)
	}
}
