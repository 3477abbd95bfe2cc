package minerapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/braiins-os/braiins-core-go/minerapi/response"
	"github.com/braiins-os/braiins-core-go/minerlog"
	"github.com/braiins-os/braiins-core-go/ratelimit"
)

func errNilDispatch(cmd string) error {
	return fmt.Errorf("minerapi: handler for %q returned a nil response with no error", cmd)
}

// Request is the parsed monitoring/control request: a (possibly
// batched, '+'-joined) command string and an optional parameter value
// shared across every command in the batch.
type Request struct {
	Command   interface{} // expected to be a string; validated in Handle
	Parameter interface{}
}

// Dispatcher is configured once with a descriptor table and a shared
// Handler, then serves any number of requests concurrently. It holds
// only the request value and a descriptor reference per call, so it
// is cancellation-safe: a cancelled command coroutine is the host
// handler's responsibility to unwind.
type Dispatcher struct {
	handler     Handler
	descriptors map[string]CommandDescriptor
	signature   string
	version     string
	apiVersion  string
	clock       response.Clock
	limiter     *ratelimit.Limiter
	log         minerlog.Logger
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithLimiter attaches an ambient rate limiter consulted per command
// before it runs; when exceeded, handleSingle returns a
// TooManyRequests error instead of invoking the handler. This is
// ambient throttling layered on top of the spec's dispatch algorithm,
// not a new command semantic -- a nil limiter (the default) reproduces
// the algorithm exactly.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(d *Dispatcher) { d.limiter = l }
}

// WithClock overrides the default system clock, primarily for tests.
func WithClock(c response.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithLogger attaches a minerlog.Logger; if omitted, minerlog.Disabled
// is used.
func WithLogger(l minerlog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher builds a Dispatcher bound to handler, reporting
// signature/version/apiVersion from the built-in version command.
func NewDispatcher(handler Handler, signature, version, apiVersion string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handler:     handler,
		descriptors: defaultDescriptors(),
		signature:   signature,
		version:     version,
		apiVersion:  apiVersion,
		clock:       response.SystemClock{},
		log:         minerlog.Disabled,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) description() string {
	return d.signature + " " + d.version
}

// Handle parses and serves one request, per the algorithm: split the
// command field on '+', run each piece through handleSingle, and wrap
// either a single Envelope or an ordered MultiResponse.
func (d *Dispatcher) Handle(ctx context.Context, req Request) interface{} {
	cmdStr, ok := req.Command.(string)
	if !ok {
		return d.wrap(response.MissingCommand())
	}

	var commands []string
	for _, piece := range strings.Split(cmdStr, "+") {
		if piece != "" {
			commands = append(commands, piece)
		}
	}
	if len(commands) == 0 {
		return d.wrap(response.InvalidCommand())
	}

	if len(commands) == 1 {
		body := d.handleSingle(ctx, commands[0], req.Parameter, false)
		return d.wrap(body)
	}

	multi := response.NewMultiResponse()
	for _, cmd := range commands {
		body := d.handleSingle(ctx, cmd, req.Parameter, true)
		multi.Set(cmd, response.NewEnvelope(body, d.clock.Now(), d.description()))
	}
	return multi
}

func (d *Dispatcher) wrap(body response.Dispatch) response.Envelope {
	return response.NewEnvelope(body, d.clock.Now(), d.description())
}

// handleSingle runs one command: descriptor lookup, the batch-mode
// parameter guard, rate limiting, parameter validation, and dispatch
// on handler kind. Any failure is converted to an error Dispatch --
// never propagated as an exception -- so the caller can always wrap
// the result into an Envelope.
func (d *Dispatcher) handleSingle(ctx context.Context, cmd string, parameter interface{}, multi bool) response.Dispatch {
	descriptor, ok := d.descriptors[cmd]
	if !ok {
		d.log.Tracef("unknown command requested: %s", cmd)
		return response.InvalidCommand()
	}

	if multi && descriptor.HasParameters() {
		return response.AccessDeniedCmd(cmd)
	}

	if d.limiter != nil && !d.limiter.Allow(cmd) {
		d.log.Errorf("rate limit exceeded for command: %s", cmd)
		return response.TooManyRequests(cmd)
	}

	if descriptor.ParamCheck != nil {
		if errResp := descriptor.ParamCheck(parameter); errResp != nil {
			return errResp
		}
	}

	switch descriptor.Kind {
	case ParameterLess:
		body, err := descriptor.invokeParamless(d.handler, ctx)
		return d.handlerResult(cmd, body, err)

	case Parameter:
		body, err := descriptor.invokeParameter(d.handler, ctx, parameter)
		return d.handlerResult(cmd, body, err)

	case VersionKind:
		return d.handleVersion()

	case CheckKind:
		return d.handleCheck(parameter)

	default:
		d.log.Errorf("descriptor %q has unknown handler kind %v", cmd, descriptor.Kind)
		return response.InvalidCommand()
	}
}

func (d *Dispatcher) handlerResult(cmd string, body response.Dispatch, err error) response.Dispatch {
	if err != nil {
		d.log.Errorf("handler for %q failed: %v", cmd, err)
		if respErr, ok := err.(*response.Error); ok {
			return respErr
		}
		return response.Unknown(err)
	}
	if body == nil {
		d.log.Tracef("handler for %q returned a nil body: %s", cmd, spew.Sdump(body))
		return response.Unknown(errNilDispatch(cmd))
	}
	return body
}

func (d *Dispatcher) handleVersion() response.Dispatch {
	return response.Version{
		Signature: d.signature,
		Miner:     d.version,
		API:       d.apiVersion,
	}
}

// handleCheck reports whether the command named by parameter is known
// to this dispatcher. Only a wholly absent parameter is an error; a
// present-but-non-string parameter (or an empty string) is just looked
// up like any other name and reported as a miss, matching handle_check
// in the donor's cgminer-api command module.
func (d *Dispatcher) handleCheck(parameter interface{}) response.Dispatch {
	if parameter == nil {
		return response.MissingCheckCmd()
	}
	name, _ := parameter.(string)
	_, exists := d.descriptors[name]
	return response.Check{
		Exists: response.BoolOf(exists),
		Access: response.BoolOf(exists),
	}
}
