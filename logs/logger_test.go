package logs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
		if !strings.Contains(buf.String(), `hello=world!`) {
			t.Fatalf("got %s", buf.String())
		}
	})
}

func TestLoggerWithAttrsKeepsSpan(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		ctx := context.WithValue(context.Background(), SpanKey, Span("abc"))
		logger.With("session", "s1").InfoContext(ctx, "round")
		out := buf.String()
		if !strings.Contains(out, "logs.span=abc") || !strings.Contains(out, "session=s1") {
			t.Fatalf("got %s", out)
		}
	})
}

func TestWrapSpan(t *testing.T) {
	base := errors.New("boom")
	if err := WrapSpan(context.Background(), base); err != base {
		t.Fatalf("got %v", err)
	}
	ctx := context.WithValue(context.Background(), SpanKey, Span("xyz"))
	err := WrapSpan(ctx, base)
	if !errors.Is(err, base) || !strings.Contains(err.Error(), "span: xyz") {
		t.Fatalf("got %v", err)
	}
	if WrapSpan(ctx, nil) != nil {
		t.Fatal("should be nil")
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("logs.span"); got != "LOGS_SPAN" {
		t.Fatalf("got %s", got)
	}
}
