package transcripts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/modes"
)

func TestCommandString(t *testing.T) {
	c := Command{Code: "say('a')\nwait_for_trigger()"}
	if got := c.String(); got != ">>> say('a')\n... wait_for_trigger()" {
		t.Fatalf("got %q", got)
	}
	if got := (Command{}).String(); got != ">>> " {
		t.Fatalf("got %q", got)
	}
}

func TestHistory(t *testing.T) {
	var h History
	h.Append(InputPrompt{}, InputPrompt{})
	if h.Len() != 1 {
		t.Fatalf("got %v", h.Items)
	}
	h.Append(
		Command{Code: "wait_for_trigger()"},
		Result{Content: "{'type': 'dialog', 'text': 'hello'}"},
		InputPrompt{},
		InputPrompt{},
	)
	expected := ">>>\n>>> wait_for_trigger()\n{'type': 'dialog', 'text': 'hello'}\n>>>"
	if got := h.String(); got != expected {
		t.Fatalf("got %q", got)
	}
	if _, ok := h.FromEnd(1).(Result); !ok {
		t.Fatalf("got %v", h.FromEnd(1))
	}
	if h.FromEnd(10) != nil {
		t.Fatal("should be nil")
	}
	if _, ok := h.Pop().(InputPrompt); !ok {
		t.Fatal("should pop input prompt")
	}
	if _, ok := h.Last().(Result); !ok {
		t.Fatalf("got %v", h.Last())
	}
	h.Reset()
	if h.Len() != 0 || h.Last() != nil || h.Pop() != nil {
		t.Fatalf("got %v", h.Items)
	}
}

func TestHistoryNeverEndsWithTwoPrompts(t *testing.T) {
	var h History
	for range 10 {
		h.Append(InputPrompt{})
		h.Append(Result{Content: "x"}, InputPrompt{}, InputPrompt{})
	}
	for i := 1; i < h.Len(); i++ {
		_, a := h.Items[i-1].(InputPrompt)
		_, b := h.Items[i].(InputPrompt)
		if a && b {
			t.Fatalf("consecutive prompts at %d", i)
		}
	}
}

func TestPrinter(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() logs.Writer {
			return buf
		},
	).Call(func(
		printer *Printer,
	) {
		printer.Print("round 1",
			Command{Code: "# greet\nsay('hi')"},
			Result{Content: "'ok'"},
			InputPrompt{},
		)
	})
	out := buf.String()
	for _, s := range []string{"round 1", "# greet", "say('hi')", "'ok'", ">>>", "..."} {
		if !strings.Contains(out, s) {
			t.Fatalf("%q not in %q", s, out)
		}
	}

	var nilPrinter *Printer
	nilPrinter.Print("x")
}
