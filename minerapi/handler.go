package minerapi

import (
	"context"

	"github.com/braiins-os/braiins-core-go/minerapi/response"
)

// Handler is the contract the host application implements; the
// dispatcher holds only a shared reference to it and invokes its
// methods concurrently from many requests, so implementations must be
// safe to call from many goroutines at once. Each method is a
// suspendable computation (it takes a context.Context) returning a
// typed domain response or an error -- the Go analogue of the
// original's coroutine-shaped handler trait.
type Handler interface {
	HandlePools(ctx context.Context) (response.Dispatch, error)
	HandleDevs(ctx context.Context) (response.Dispatch, error)
	HandleEdevs(ctx context.Context) (response.Dispatch, error)
	HandleSummary(ctx context.Context) (response.Dispatch, error)
	HandleConfig(ctx context.Context) (response.Dispatch, error)
	HandleDevDetails(ctx context.Context) (response.Dispatch, error)
	HandleStats(ctx context.Context) (response.Dispatch, error)
	HandleEstats(ctx context.Context) (response.Dispatch, error)
	HandleCoin(ctx context.Context) (response.Dispatch, error)
	HandleAscCount(ctx context.Context) (response.Dispatch, error)
	HandleAsc(ctx context.Context, parameter interface{}) (response.Dispatch, error)
	HandleLcd(ctx context.Context) (response.Dispatch, error)
}
