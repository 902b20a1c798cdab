package repls

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/reusee/tairepl/debugs"
	"github.com/reusee/tairepl/fgens"
	"github.com/reusee/tairepl/handlers"
	"github.com/reusee/tairepl/learns"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/procs"
	"github.com/reusee/tairepl/prompts"
	"github.com/reusee/tairepl/sandbox"
	"github.com/reusee/tairepl/transcripts"
	"go.starlark.net/starlark"
)

// Session drives a model through rounds of generating and executing statements.
// Calls must not overlap; Interrupt may be called from any goroutine.
type Session struct {
	Name      string
	LLM       llms.Generator
	Options   llms.GenerateOptions
	Executor  *sandbox.Executor
	Namespace *namespaces.Namespace
	Builder   *prompts.Builder
	Handlers  handlers.Chain
	Learner   learns.Learner
	Functions *fgens.Generator

	MaxRounds                int
	ResetOnYield             bool
	AllowLearnWithoutRequest bool
	// query type and payload key of plain text queries
	TriggerType string
	TriggerKey  string
	// names left out of the declaration block
	Exclude []string

	Logger  logs.Logger
	NewSpan logs.NewSpan
	Printer *transcripts.Printer
	// opened over the namespace on fatal errors if set
	Tap debugs.Tap

	History transcripts.History

	interrupted atomic.Bool
	current     atomic.Pointer[string]
}

// round is the state of one call
type round struct {
	ctx          context.Context
	generations  []string
	loopDetected bool
	code         string
	fresh        bool
	outcome      Outcome
}

// Call runs rounds for a query until a yield, an interrupt, an abandoned loop or a fatal error.
// Plain text queries become trigger queries, text starting with { is parsed as a query literal.
func (s *Session) Call(ctx context.Context, query string) (starlark.Value, error) {
	outcome := s.Run(ctx, s.ParseQuery(query))
	if outcome.Kind == Fatal {
		return nil, outcome.Err
	}
	return outcome.Payload, nil
}

func (s *Session) ParseQuery(text string) prompts.Query {
	if strings.HasPrefix(text, "{") {
		query, err := prompts.ParseQuery(text)
		if err == nil {
			return query
		}
	}
	return prompts.Query{
		Type: s.TriggerType,
		Fields: []prompts.Field{
			{Key: s.TriggerKey, Value: text},
		},
	}
}

func (s *Session) Run(ctx context.Context, query prompts.Query) Outcome {
	return s.run(ctx, "call", query.String(),
		transcripts.Result{Content: query.String()},
		transcripts.InputPrompt{},
	)
}

// Schedule executes code as if the model had generated it, then continues with rounds.
func (s *Session) Schedule(ctx context.Context, code string) Outcome {
	return s.run(ctx, "schedule", code,
		transcripts.Command{Code: code},
	)
}

func (s *Session) run(ctx context.Context, what string, input string, items ...transcripts.Item) Outcome {
	if s.NewSpan != nil {
		ctx, _ = s.NewSpan(ctx, "")
	}
	s.log(ctx, what, "input", input)

	s.History.Append(items...)
	defer func() {
		s.current.Store(nil)
		s.interrupted.Store(false)
	}()

	r := &round{
		ctx: ctx,
	}
	if err := procs.Run[*round](r, procs.Func[*round](s.dispatch)); err != nil {
		s.fatal(ctx, err)
		return Outcome{
			Kind: Fatal,
			Err:  err,
		}
	}
	s.log(ctx, what+" end", "outcome", r.outcome.Kind.String())
	return r.outcome
}

// Interrupt makes the running call return before its next round.
// It has no effect when nothing runs or the session is waiting for a trigger.
func (s *Session) Interrupt() {
	current := s.current.Load()
	if current == nil || *current == prompts.TriggerStatement {
		return
	}
	s.interrupted.Store(true)
}

// Current returns the statement being executed, empty if none.
func (s *Session) Current() string {
	if current := s.current.Load(); current != nil {
		return *current
	}
	return ""
}

// Reset clears history, locals and handler counters.
func (s *Session) Reset() {
	s.History.Reset()
	s.interrupted.Store(false)
	s.Namespace.Clear()
	s.Handlers.Reset()
}

// say speaks through the capability of the same name, if any.
func (s *Session) say(ctx context.Context, msg string) {
	v, err := s.Namespace.Lookup("say")
	if err != nil {
		s.warn(ctx, "say not available", "msg", msg)
		return
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		s.warn(ctx, "say not callable", "msg", msg)
		return
	}
	thread := &starlark.Thread{
		Name: "say",
	}
	if _, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String(msg)}, nil); err != nil {
		s.warn(ctx, "say", "error", err)
	}
}

func (s *Session) fatal(ctx context.Context, err error) {
	if s.Logger != nil {
		s.Logger.ErrorContext(ctx, "fatal",
			"session", s.Name,
			"error", err,
		)
	}
	if s.Tap != nil {
		s.Tap(ctx, "fatal: "+err.Error(), s.Namespace.Globals())
	}
}

func (s *Session) log(ctx context.Context, msg string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.InfoContext(ctx, msg, append([]any{"session", s.Name}, args...)...)
}

func (s *Session) warn(ctx context.Context, msg string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.WarnContext(ctx, msg, append([]any{"session", s.Name}, args...)...)
}
