package procs

import (
	"errors"
	"testing"
)

type counter struct {
	steps []string
}

func step(name string, next Proc[*counter]) Proc[*counter] {
	return Func[*counter](func(c *counter) (Proc[*counter], error) {
		c.steps = append(c.steps, name)
		return next, nil
	})
}

func TestRun(t *testing.T) {
	c := new(counter)
	err := Run(c, Procs[*counter]{
		step("a", step("b", nil)),
		step("c", nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.steps) != 3 || c.steps[0] != "a" || c.steps[1] != "b" || c.steps[2] != "c" {
		t.Fatalf("got %v", c.steps)
	}
}

func TestRunError(t *testing.T) {
	e := errors.New("foo")
	c := new(counter)
	err := Run(c, step("a", Func[*counter](func(*counter) (Proc[*counter], error) {
		return nil, e
	})))
	if err != e {
		t.Fatalf("got %v", err)
	}
	if len(c.steps) != 1 {
		t.Fatalf("got %v", c.steps)
	}
}

func TestRunNil(t *testing.T) {
	if err := Run[*counter](new(counter), nil); err != nil {
		t.Fatal(err)
	}
	if err := Run(new(counter), Procs[*counter]{}); err != nil {
		t.Fatal(err)
	}
}
