package tawa

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind classifies the error taxonomy of spec §7: a fixed set of
// failure modes, each with its own propagation and exit-code policy.
type FaultKind int

const (
	// ContractViolation marks a programming error: invalid coder range,
	// out-of-bounds alphabet access, out-of-order context update, a NIL
	// dereference, a missing table entry. Never recovered silently.
	ContractViolation FaultKind = iota
	// IOTruncation marks a read that ran past EOF while decoding a
	// stream that has not yet reached its terminal sentinel.
	IOTruncation
	// ModelFormatError marks a malformed serialized model file.
	ModelFormatError
	// RuleCompileError marks an unknown atom or malformed pattern
	// encountered while compiling a rewrite-rule set.
	RuleCompileError
	// OutOfMemory marks an allocation failure; these systems never
	// partially recover from one.
	OutOfMemory
	// BadArgument marks a caller/user error in the command-line drivers
	// (exit code 2, rather than the fatal-abort code 1).
	BadArgument
)

func (k FaultKind) String() string {
	switch k {
	case ContractViolation:
		return "contract violation"
	case IOTruncation:
		return "I/O truncation"
	case ModelFormatError:
		return "model format error"
	case RuleCompileError:
		return "rule compile error"
	case OutOfMemory:
		return "out of memory"
	case BadArgument:
		return "bad argument"
	default:
		return "unknown fault"
	}
}

// Fault is the error type carried across every package boundary for the
// failure taxonomy in spec §7. It is deliberately not wrapped in the
// ordinary Go "%w" sense beyond Unwrap: callers that only want to log and
// exit can switch on Kind without inspecting Err.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// ExitCode maps Kind to the process exit code spec §7 mandates: 2 for a
// bad argument, 1 for every other (fatal) kind.
func (f *Fault) ExitCode() int {
	if f.Kind == BadArgument {
		return 2
	}
	return 1
}

// NewFault builds a Fault, attaching a stack trace to err via
// github.com/pkg/errors so a diagnostic printed at the cmd/ boundary can
// show where the violation originated.
func NewFault(kind FaultKind, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

// Faultf is a convenience constructor combining fmt.Errorf and NewFault.
func Faultf(kind FaultKind, op, format string, args ...any) *Fault {
	return NewFault(kind, op, fmt.Errorf(format, args...))
}

// Raise panics with a *Fault. It is the designated way to signal a
// ContractViolation-class error (spec §7: "fatal — abort with a
// diagnostic... must never be recovered silently") from deep inside a
// call stack that has no useful error-return path, such as a coder
// renormalisation loop or a context-arena index check. Callers at a
// command boundary recover the panic and map it to an exit code via
// Recover.
func Raise(kind FaultKind, op, format string, args ...any) {
	panic(Faultf(kind, op, format, args...))
}

// Recover turns a panic carrying a *Fault into a returned error, and
// re-panics on anything else (a genuine programming bug in this code,
// not a modeled Fault). Intended to be deferred once at the top of a
// cmd/ driver's Run function:
//
//	defer func() { err = tawa.Recover(recover(), err) }()
func Recover(r any, prior error) error {
	if r == nil {
		return prior
	}
	if f, ok := r.(*Fault); ok {
		return f
	}
	panic(r)
}
