package repls

import (
	"errors"

	"go.starlark.net/starlark"
)

var (
	ErrRoundBudgetExceeded = errors.New("round budget exceeded")
	ErrBusy                = errors.New("session busy")
)

type OutcomeKind uint8

const (
	Continue OutcomeKind = iota
	Yielded
	Interrupted
	LoopAbandoned
	Fatal
)

func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Yielded:
		return "yielded"
	case Interrupted:
		return "interrupted"
	case LoopAbandoned:
		return "loop abandoned"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

// Outcome is how a round or a call ended.
type Outcome struct {
	Kind OutcomeKind
	// set when Kind is Yielded, may be None
	Payload starlark.Value
	// set when Kind is Fatal
	Err error
}
