package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/modes"
	"github.com/reusee/tairepl/replconfigs"
	"github.com/reusee/tairepl/sandbox"
	"github.com/reusee/tairepl/transcripts"
	"github.com/reusee/tairepl/vars"
)

func nameFault(name string) error {
	return &sandbox.Fault{
		Kind: sandbox.ErrNameResolution,
		Err:  fmt.Errorf("undefined: %s", name),
	}
}

func TestCountingMax(t *testing.T) {
	chain := Chain{UndefinedName(3)}
	var history transcripts.History
	for i := range 3 {
		if err := chain.Handle(&history, nameFault("foo")); err != nil {
			t.Fatalf("%d: got %v", i, err)
		}
	}
	if history.Len() != 6 {
		t.Fatalf("got %v", history.Items)
	}
	if got := history.Items[0].String(); got != "NameError: undefined: foo. Solve the task with the imported definitions only." {
		t.Fatalf("got %v", got)
	}
	err := chain.Handle(&history, nameFault("foo"))
	if !errors.Is(err, sandbox.ErrNameResolution) {
		t.Fatalf("got %v", err)
	}
	if history.Len() != 6 {
		t.Fatalf("got %v", history.Items)
	}
}

func TestResetAfterSuccess(t *testing.T) {
	chain := Chain{UndefinedName(3)}
	var history transcripts.History
	for range 10 {
		for range 3 {
			if err := chain.Handle(&history, nameFault("foo")); err != nil {
				t.Fatal(err)
			}
		}
		chain.Reset()
	}
}

func TestUnclaimed(t *testing.T) {
	chain := Default()
	var history transcripts.History
	other := errors.New("other")
	if err := chain.Handle(&history, other); err != other {
		t.Fatalf("got %v", err)
	}
	if history.Len() != 0 {
		t.Fatalf("got %v", history.Items)
	}
}

func TestMessages(t *testing.T) {
	var history transcripts.History
	chain := Default()
	for _, err := range []error{
		&sandbox.Fault{Kind: sandbox.ErrTypeMismatch, Err: errors.New("unsupported binary operation: int + string")},
		&sandbox.Fault{Kind: sandbox.ErrImportAttempt, Err: errors.New("imports are not allowed")},
		&sandbox.Fault{Kind: sandbox.ErrForbiddenOperation, Err: errors.New("dunder names are not allowed")},
		&sandbox.Fault{Kind: sandbox.ErrCollectionAccess, Err: errors.New(`key "b" not in dict`)},
		NewHint("The object is out of reach."),
	} {
		if err := chain.Handle(&history, err); err != nil {
			t.Fatal(err)
		}
	}
	expected := `TypeError: unsupported binary operation: int + string.
>>>
ImportError: No imports possible. Try solving the task with only the provided functions, and if this is not possible, tell the user that you cannot solve it.
>>>
ImportError: No imports possible. Try solving the task with only the provided functions, and if this is not possible, tell the user that you cannot solve it.
>>>
key "b" not in dict. Revise the code carefully to avoid this error.
>>>
The object is out of reach.
>>>`
	if got := history.String(); got != expected {
		t.Fatalf("got %s", got)
	}
}

func TestAdvisoryHintsDoNotCount(t *testing.T) {
	chain := Chain{Semantic(1)}
	var history transcripts.History
	for range 5 {
		if err := chain.Handle(&history, NewAdvisory("note")); err != nil {
			t.Fatal(err)
		}
	}
	if err := chain.Handle(&history, NewHint("critical")); err != nil {
		t.Fatal(err)
	}
	err := chain.Handle(&history, NewHint("critical"))
	if !errors.Is(err, ErrSemanticHint) {
		t.Fatalf("got %v", err)
	}
}

func TestFromSpecs(t *testing.T) {
	chain, err := FromSpecs(replconfigs.ErrorHandlerSpecs{
		{Type: "import", Max: vars.PtrTo(0)},
		{Type: "semantic"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(chain) != 2 {
		t.Fatalf("got %v", chain)
	}
	var history transcripts.History
	if err := chain.Handle(&history, &sandbox.Fault{Kind: sandbox.ErrImportAttempt, Err: errors.New("x")}); !errors.Is(err, sandbox.ErrImportAttempt) {
		t.Fatalf("got %v", err)
	}
	if chain[1].(*Counting).Max != 4 {
		t.Fatalf("got %v", chain[1])
	}

	if _, err := FromSpecs(replconfigs.ErrorHandlerSpecs{{Type: "nope"}}); err == nil {
		t.Fatal("should error")
	}
}

func TestNewChainFromScope(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader(nil, replconfigs.Schema)
		},
	).Call(func(
		newChain NewChain,
	) {
		a, err := newChain()
		if err != nil {
			t.Fatal(err)
		}
		b, err := newChain()
		if err != nil {
			t.Fatal(err)
		}
		if len(a) != 4 || len(b) != 4 {
			t.Fatalf("got %v %v", a, b)
		}
		if a[0] == b[0] {
			t.Fatal("should not share handlers")
		}
	})
}
