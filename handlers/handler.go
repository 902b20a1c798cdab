package handlers

import (
	"errors"

	"github.com/reusee/tairepl/transcripts"
)

type Handler interface {
	Claims(err error) bool
	// Handle returns the hint to show, or an error to abort with.
	Handle(err error) (string, error)
	// Reset is called after every fault-free statement.
	Reset()
}

// Counting claims faults of the given kinds and aborts once more than Max were handled since the last Reset.
type Counting struct {
	Name   string
	Kinds  []error
	Max    int
	Format func(err error) string
	// reports whether err counts toward Max, all count if nil
	Counts func(err error) bool

	counter int
}

var _ Handler = new(Counting)

func (c *Counting) Claims(err error) bool {
	for _, kind := range c.Kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func (c *Counting) Handle(err error) (string, error) {
	if c.Counts == nil || c.Counts(err) {
		c.counter++
		if c.counter > c.Max {
			return "", err
		}
	}
	return c.Format(err), nil
}

func (c *Counting) Reset() {
	c.counter = 0
}

func (c *Counting) Count() int {
	return c.counter
}

type Chain []Handler

// Handle lets the first claiming handler record its hint followed by an input prompt.
// Unclaimed or exhausted faults are returned unmodified.
func (c Chain) Handle(history *transcripts.History, err error) error {
	for _, handler := range c {
		if !handler.Claims(err) {
			continue
		}
		hint, err := handler.Handle(err)
		if err != nil {
			return err
		}
		history.Append(
			transcripts.Result{Content: hint},
			transcripts.InputPrompt{},
		)
		return nil
	}
	return err
}

func (c Chain) Reset() {
	for _, handler := range c {
		handler.Reset()
	}
}
