package handlers

import "errors"

var ErrSemanticHint = errors.New("semantic hint")

// Hint is raised by capability implementations to tell the model what went wrong.
// Advisory hints are shown but never count toward aborting.
type Hint struct {
	Message  string
	Critical bool
}

func (h *Hint) Error() string {
	return h.Message
}

func (h *Hint) Is(target error) bool {
	return target == ErrSemanticHint
}

func NewHint(message string) *Hint {
	return &Hint{
		Message:  message,
		Critical: true,
	}
}

func NewAdvisory(message string) *Hint {
	return &Hint{
		Message: message,
	}
}
