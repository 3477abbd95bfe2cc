package minerapi

import (
	"context"

	"github.com/braiins-os/braiins-core-go/minerapi/response"
)

// HandlerKind classifies how the dispatcher invokes a command.
type HandlerKind int

const (
	// ParameterLess commands are invoked with no argument.
	ParameterLess HandlerKind = iota
	// Parameter commands are invoked with the request's parameter
	// value and must carry a ParamCheck.
	Parameter
	// VersionKind is the built-in version command.
	VersionKind
	// CheckKind is the built-in check command.
	CheckKind
)

// paramlessFunc is the method-expression shape of a ParameterLess
// Handler method, e.g. Handler.HandlePools.
type paramlessFunc func(Handler, context.Context) (response.Dispatch, error)

// parameterFunc is the method-expression shape of a Parameter Handler
// method, e.g. Handler.HandleAsc.
type parameterFunc func(Handler, context.Context, interface{}) (response.Dispatch, error)

// ParamCheck validates a command's parameter before the handler runs;
// its error short-circuits the handler.
type ParamCheck func(parameter interface{}) *response.Error

// CommandDescriptor binds a command name to its handler kind,
// validation rule, and (for ParameterLess/Parameter commands) the
// handler method to invoke. It is static metadata, built once by
// small registration helpers that parameterize over handler kind and
// method -- the idiomatic-Go replacement for the original's
// code-generating command macros.
type CommandDescriptor struct {
	Name       string
	Kind       HandlerKind
	ParamCheck ParamCheck

	invokeParamless paramlessFunc
	invokeParameter parameterFunc
}

// HasParameters reports whether this command consumes the request's
// parameter value. Used by the batch-mode guard: a batched request
// shares one parameter across all of its commands, so a command that
// needs one cannot be safely addressed inside a batch.
func (d CommandDescriptor) HasParameters() bool {
	return d.Kind == Parameter || d.Kind == CheckKind
}

// paramless registers a ParameterLess command bound to a Handler
// method expression.
func paramless(name string, fn paramlessFunc) CommandDescriptor {
	return CommandDescriptor{Name: name, Kind: ParameterLess, invokeParamless: fn}
}

// parameter registers a Parameter command bound to a Handler method
// expression and a validation predicate.
func parameter(name string, check ParamCheck, fn parameterFunc) CommandDescriptor {
	return CommandDescriptor{Name: name, Kind: Parameter, ParamCheck: check, invokeParameter: fn}
}

// checkAscParameter requires a signed 32-bit integer parameter,
// failing with MissingAscParameter otherwise.
func checkAscParameter(p interface{}) *response.Error {
	switch v := p.(type) {
	case int:
		if v >= -(1<<31) && v <= 1<<31-1 {
			return nil
		}
	case int32:
		return nil
	case float64:
		// JSON numbers decode to float64; accept it if it is an exact
		// integer within int32 range.
		if v == float64(int32(v)) {
			return nil
		}
	}
	return response.MissingAscParameter()
}

// defaultDescriptors builds the static command table named in the
// monitoring API: the eleven ParameterLess commands, the single
// Parameter command (asc), and the two built-ins (version, check)
// which the dispatcher special-cases rather than invoking through a
// Handler method.
func defaultDescriptors() map[string]CommandDescriptor {
	descriptors := map[string]CommandDescriptor{
		"pools":     paramless("pools", Handler.HandlePools),
		"devs":      paramless("devs", Handler.HandleDevs),
		"edevs":     paramless("edevs", Handler.HandleEdevs),
		"summary":   paramless("summary", Handler.HandleSummary),
		"config":    paramless("config", Handler.HandleConfig),
		"devdetails": paramless("devdetails", Handler.HandleDevDetails),
		"stats":     paramless("stats", Handler.HandleStats),
		"estats":    paramless("estats", Handler.HandleEstats),
		"coin":      paramless("coin", Handler.HandleCoin),
		"asccount":  paramless("asccount", Handler.HandleAscCount),
		"lcd":       paramless("lcd", Handler.HandleLcd),
		"asc":       parameter("asc", checkAscParameter, Handler.HandleAsc),
		"version":   {Name: "version", Kind: VersionKind},
		"check":     {Name: "check", Kind: CheckKind},
	}
	return descriptors
}
