package repls

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/fgens"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/modes"
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/replconfigs"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

func TestSubAgent(t *testing.T) {
	inner, _ := newTestSession(t, nil, "return_result(answer=42)")
	inner.ResetOnYield = true
	agent := &SubAgent{
		Name:    "helper",
		Session: inner,
		Meta: namespaces.Meta{
			Comment: "computes things",
		},
	}
	c := new(console)
	outer, llm := newTestSession(t, c.capabilities(),
		"r = helper('compute')",
		"r",
		"wait_for_trigger()",
	)
	agent.Bind(outer.Namespace)

	if _, err := outer.Call(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(outer.History.String(), "\n{'answer': 42}\n") {
		t.Fatalf("got %s", outer.History.String())
	}
	if !strings.Contains(llm.prompts[0], "def helper(query)  # computes things") {
		t.Fatalf("got %s", llm.prompts[0])
	}
	if inner.History.Len() != 0 {
		t.Fatalf("got %s", inner.History.String())
	}
}

func TestFunctionGeneration(t *testing.T) {
	c := new(console)
	s, _ := newTestSession(t, c.capabilities(),
		"say(greet('bob'))",
		"wait_for_trigger()",
	)
	var asked []string
	s.Functions = &fgens.Generator{
		LLM: llms.GeneratorFunc(func(_ context.Context, prompt string, _ llms.GenerateOptions) (string, error) {
			asked = append(asked, prompt)
			return "def greet(name):\n    return 'hi ' + name", nil
		}),
		Executor:    s.Executor,
		Namespace:   s.Namespace,
		Prompt:      fgens.DefaultPrompt,
		QueryPrefix: fgens.DefaultQueryPrefix,
		QuerySuffix: fgens.DefaultQuerySuffix,
		Stop:        fgens.DefaultStop,
	}

	if _, err := s.Call(context.Background(), "greet bob"); err != nil {
		t.Fatal(err)
	}
	if len(asked) != 1 {
		t.Fatalf("got %v", asked)
	}
	if len(c.said) != 1 || c.said[0] != "hi bob" {
		t.Fatalf("got %v", c.said)
	}
	expected := `{'type': 'dialog', 'text': 'greet bob'}
>>> def greet(name):
...     return 'hi ' + name
>>> say(greet('bob'))
>>> wait_for_trigger()`
	if got := s.History.String(); got != expected {
		t.Fatalf("got %s", got)
	}
	if !s.Namespace.Has("greet") {
		t.Fatal("should be defined")
	}
}

func TestWorkerBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := new(console)
	caps := c.capabilities().
		Define("block", starlark.NewBuiltin("block", func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
			close(started)
			<-release
			return starlark.None, nil
		}), namespaces.Meta{})
	s, _ := newTestSession(t, caps, "block()", "wait_for_trigger()")
	worker := NewWorker(s)

	ch, err := worker.Submit(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}
	<-started
	if _, err := worker.Submit(context.Background(), "again"); !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v", err)
	}
	close(release)
	outcome := <-ch
	if outcome.Kind != Yielded {
		t.Fatalf("got %v", outcome)
	}
	worker.Wait()
	if _, ok := <-ch; ok {
		t.Fatal("should be closed")
	}
}

func TestNewSessionFromScope(t *testing.T) {
	replies := []string{"say('hi')", "wait_for_trigger()"}
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader(nil, replconfigs.Schema)
		},
		func() llms.GetDefaultGenerator {
			return func() (llms.Generator, error) {
				return llms.GeneratorFunc(func(context.Context, string, llms.GenerateOptions) (string, error) {
					reply := replies[0]
					replies = replies[1:]
					return reply, nil
				}), nil
			}
		},
	).Call(func(
		newSession NewSession,
		newSubAgent NewSubAgent,
	) {
		c := new(console)
		session, err := newSession("main", c.capabilities())
		if err != nil {
			t.Fatal(err)
		}
		if session.MaxRounds <= 0 {
			t.Fatalf("got %v", session.MaxRounds)
		}
		if session.Executor.ResultFunction != sandbox.DefaultResultFunction {
			t.Fatalf("got %v", session.Executor.ResultFunction)
		}
		if _, err := session.Call(context.Background(), "hello"); err != nil {
			t.Fatal(err)
		}
		if len(c.said) != 1 || c.said[0] != "hi" {
			t.Fatalf("got %v", c.said)
		}

		agent, err := newSubAgent("helper", nil, namespaces.Meta{})
		if err != nil {
			t.Fatal(err)
		}
		if !agent.Session.ResetOnYield {
			t.Fatal("should reset")
		}
	})
}
