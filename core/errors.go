package core

import "fmt"

// ErrorKind classifies a failure by what went wrong rather than where. The
// taxonomy is deliberately small: each kind implies a distinct propagation
// policy in the router and workflow executor.
type ErrorKind int

const (
	// KindValidation covers bad or missing parameters, unknown task types
	// and pipeline-order violations. Fails fast, deterministic.
	KindValidation ErrorKind = iota
	// KindLifecycle covers duplicate or missing agent registrations.
	KindLifecycle
	// KindExecution covers failures raised by an agent call.
	KindExecution
	// KindWorkflow covers aggregate failure across multiple tasks.
	KindWorkflow
	// KindNarrative covers narrative generation or validation failure.
	KindNarrative
)

// String returns the lowercase label used in records and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindLifecycle:
		return "lifecycle"
	case KindExecution:
		return "execution"
	case KindWorkflow:
		return "workflow"
	case KindNarrative:
		return "narrative"
	default:
		return "unknown"
	}
}

// Severity grades how alarming a recorded failure is.
type Severity int

const (
	// SeverityLow marks recoverable or expected failures.
	SeverityLow Severity = iota
	// SeverityMedium marks failures that degrade a single task.
	SeverityMedium
	// SeverityHigh marks failures that abort a workflow.
	SeverityHigh
	// SeverityCritical marks failures that compromise the orchestrator.
	SeverityCritical
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is the orchestrator-level error type. It tags a message with an
// ErrorKind and optionally wraps the underlying cause so callers can both
// classify (IsKind) and unwrap (errors.As / errors.Is) failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewError builds an Error without a cause.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError builds an Error around an underlying cause.
func WrapError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if oe, ok := err.(*Error); ok && oe.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
