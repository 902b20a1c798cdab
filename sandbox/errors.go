package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	ErrForbiddenOperation   = errors.New("forbidden operation")
	ErrImportAttempt        = fmt.Errorf("%w: import", ErrForbiddenOperation)
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrNameResolution       = errors.New("name resolution failure")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrCollectionAccess     = errors.New("collection access failure")
	ErrSyntax               = errors.New("syntax error")
	ErrRecursionLimit       = errors.New("recursion limit exceeded")
	ErrStepLimit            = errors.New("execution step limit exceeded")
)

// Fault is a classified execution failure. It matches both its kind and the underlying error.
type Fault struct {
	Kind error
	Err  error
}

func (f *Fault) Error() string {
	return f.Err.Error()
}

func (f *Fault) Unwrap() []error {
	return []error{f.Kind, f.Err}
}

func fault(kind error, format string, args ...any) *Fault {
	return &Fault{
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

type RecursionLimitError struct {
	// the fragment that exceeded the limit
	Fragment string
	Depth    int
	// enclosing fragments, innermost first
	Trace []string
}

func (r *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit exceeded at depth %d: %s", r.Depth, r.Fragment)
}

func (r *RecursionLimitError) Is(target error) bool {
	return target == ErrRecursionLimit
}

// Yield ends the current call with a payload. Capabilities return it as an error.
type Yield struct {
	Payload starlark.Value
}

func (y *Yield) Error() string {
	if y.Payload == nil {
		return "yield"
	}
	return "yield: " + Repr(y.Payload)
}

var (
	nameMarkers = []string{
		"undefined:",
		"referenced before assignment",
		"field or method",
		"has no field",
	}
	collectionMarkers = []string{
		"out of range",
		"not in dict",
		"key not found",
		"empty list",
		"empty dict",
		"not in list",
		"missing key",
	}
	typeMarkers = []string{
		"unsupported binary operation",
		"unknown binary op",
		"unsupported unary operation",
		"unsupported comparison",
		"not supported",
		"invalid call of non-function",
		"not callable",
		"missing 1 argument",
		"missing argument",
		"missing required",
		"arguments, want",
		"argument, want",
		"accepts no",
		"takes no",
		"unexpected keyword argument",
		"multiple values for",
		"for parameter",
		"unhashable",
		"not iterable",
		"has no len",
		"want int",
		"want string",
		"invalid literal",
	}
)

// classify maps a Starlark failure to a fault kind.
// Errors carrying their own identity are returned as is.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var yield *Yield
	if errors.As(err, &yield) {
		return yield
	}
	var recursion *RecursionLimitError
	if errors.As(err, &recursion) {
		return recursion
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}

	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &Fault{Kind: ErrSyntax, Err: err}
	}
	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) {
		for _, e := range resolveErrs {
			if strings.Contains(e.Msg, "undefined:") {
				return &Fault{Kind: ErrNameResolution, Err: err}
			}
		}
		return &Fault{Kind: ErrSyntax, Err: err}
	}

	var evalErr *starlark.EvalError
	if !errors.As(err, &evalErr) {
		// not from the interpreter
		return err
	}
	if cause := evalErr.Unwrap(); cause != nil && !isInterpreterError(cause) {
		// capability errors
		return cause
	}

	msg := evalErr.Msg
	switch {
	case strings.Contains(msg, "too many steps"):
		return &Fault{Kind: ErrStepLimit, Err: err}
	case containsAny(msg, nameMarkers):
		return &Fault{Kind: ErrNameResolution, Err: errors.New(msg)}
	case containsAny(msg, collectionMarkers):
		return &Fault{Kind: ErrCollectionAccess, Err: errors.New(msg)}
	case containsAny(msg, typeMarkers):
		return &Fault{Kind: ErrTypeMismatch, Err: errors.New(msg)}
	}
	return err
}

// errors produced by the interpreter itself carry no type beyond their message
func isInterpreterError(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *Yield, *RecursionLimitError, *Fault:
			return false
		}
	}
	msg := err.Error()
	return containsAny(msg, nameMarkers) ||
		containsAny(msg, collectionMarkers) ||
		containsAny(msg, typeMarkers)
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
