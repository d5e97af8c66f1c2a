package toolkit

import (
	"fmt"

	"github.com/toolhost/toolhost/pkg/mcp"
)

// Kind is the closed set of failure categories a dispatch can produce.
// Every handler failure is classified before it crosses the router boundary.
type Kind int

const (
	// KindInternal wraps OS, network and encoding faults raised while a
	// handler executes.
	KindInternal Kind = iota
	// KindToolNotFound means no tool with the requested name is registered.
	// Raised before any parameter validation happens.
	KindToolNotFound
	// KindInvalidParams means the raw payload failed schema validation.
	KindInvalidParams
)

// String returns the category name.
func (k Kind) String() string {
	switch k {
	case KindToolNotFound:
		return "tool_not_found"
	case KindInvalidParams:
		return "invalid_params"
	default:
		return "internal_error"
	}
}

// RPCCode maps the category to its JSON-RPC error code.
func (k Kind) RPCCode() int {
	switch k {
	case KindToolNotFound:
		return mcp.MethodNotFound
	case KindInvalidParams:
		return mcp.InvalidParams
	default:
		return mcp.InternalError
	}
}

// CallError is the structured error returned instead of a result. Exactly one
// CallError crosses the router boundary per failed invocation.
type CallError struct {
	Kind    Kind
	Message string
	Data    interface{}
}

// Error implements the error interface
func (e *CallError) Error() string {
	return e.Message
}

// RPCError converts the call error to its wire representation.
func (e *CallError) RPCError() *mcp.Error {
	return &mcp.Error{
		Code:    e.Kind.RPCCode(),
		Message: e.Message,
		Data:    e.Data,
	}
}

// Internalf builds an internal-error CallError with a formatted message.
// Handlers use it to classify OS and network faults at the failure site.
func Internalf(format string, args ...interface{}) *CallError {
	return &CallError{
		Kind:    KindInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFoundError builds the error for an unregistered tool name.
func NotFoundError(name string) *CallError {
	return &CallError{
		Kind:    KindToolNotFound,
		Message: fmt.Sprintf("tool not found: %s", name),
	}
}

// InvalidParamsError builds the error for a payload that failed validation.
func InvalidParamsError(tool string, detail interface{}) *CallError {
	return &CallError{
		Kind:    KindInvalidParams,
		Message: fmt.Sprintf("invalid parameters for tool %s", tool),
		Data:    detail,
	}
}
