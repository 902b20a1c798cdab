package repls

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/tairepl/procs"
	"github.com/reusee/tairepl/prompts"
	"github.com/reusee/tairepl/sandbox"
	"github.com/reusee/tairepl/transcripts"
	"go.starlark.net/starlark"
)

type step = procs.Proc[*round]

// dispatch picks the next state from the end of the history.
func (s *Session) dispatch(r *round) (step, error) {
	if s.MaxRounds > 0 && len(r.generations) >= s.MaxRounds {
		return nil, fmt.Errorf("%w: %d rounds", ErrRoundBudgetExceeded, s.MaxRounds)
	}

	if s.interrupted.CompareAndSwap(true, false) {
		// the trigger is left pending, the next call executes it
		s.History.Append(transcripts.Command{
			Code: prompts.TriggerStatement,
		})
		s.log(r.ctx, "interrupted")
		r.outcome = Outcome{
			Kind: Interrupted,
		}
		return nil, nil
	}

	switch last := s.History.Last().(type) {
	case transcripts.InputPrompt:
		return procs.Func[*round](s.generate), nil
	case transcripts.Command:
		s.log(r.ctx, "executing scheduled statement", "code", last.Code)
		r.code = last.Code
		r.fresh = false
		return procs.Func[*round](s.checkLoop), nil
	default:
		return nil, fmt.Errorf("unexpected history item: %T", last)
	}
}

// generate asks the model for the next statement.
func (s *Session) generate(r *round) (step, error) {
	prompt, err := s.buildPrompt(r)
	if err != nil {
		return nil, err
	}
	s.History.Pop()
	s.Printer.PrintText("prompt", prompt)

	reply, err := s.complete(r, prompt)
	if err != nil {
		return nil, err
	}
	code, expected := Split(reply)
	s.log(r.ctx, "generated",
		"code", code,
		"expected", expected,
	)
	r.generations = append(r.generations, code)
	r.code = code
	r.fresh = true
	return procs.Func[*round](s.checkLoop), nil
}

func (s *Session) buildPrompt(r *round) (string, error) {
	transcript := s.History.String()
	base, err := s.Builder.Build(r.ctx, prompts.TriggerStatement+"\n"+transcript+"\n", r.loopDetected)
	if err != nil {
		return "", err
	}
	base = strings.ReplaceAll(base, prompts.DeclarationsPlaceholder, s.Namespace.Declarations(s.Exclude...))
	base = strings.TrimRight(base, "\n")
	if !strings.HasSuffix(base, prompts.TriggerStatement) {
		base += "\n" + transcripts.PromptMarker + " " + prompts.TriggerStatement
	}
	return base + "\n" + transcript, nil
}

// complete generates a non-empty reply, raising the temperature on empty ones.
func (s *Session) complete(r *round, prompt string) (string, error) {
	options := s.Options
	if !slices.Contains(options.Stop, transcripts.PromptMarker) {
		options.Stop = append(slices.Clone(options.Stop), transcripts.PromptMarker)
	}
	for {
		reply, err := s.LLM.Generate(r.ctx, prompt, options)
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(reply)
		if reply != "" {
			return reply, nil
		}
		temperature := 0.1
		if options.Temperature != nil {
			temperature = *options.Temperature + 0.1
		}
		if temperature > 1 {
			s.warn(r.ctx, "empty reply, substituting trigger statement")
			return prompts.TriggerStatement, nil
		}
		options.Temperature = &temperature
		s.warn(r.ctx, "empty reply", "temperature", temperature)
	}
}

// checkLoop re-prompts on the first detected loop and gives up on the second.
func (s *Session) checkLoop(r *round) (step, error) {
	if !DetectLoop(r.generations, Conversational) {
		r.loopDetected = false
		return procs.Func[*round](s.record), nil
	}
	if r.loopDetected {
		s.warn(r.ctx, "loop detected again, giving up")
		s.Reset()
		s.say(r.ctx, prompts.GiveUpMessage)
		r.outcome = Outcome{
			Kind: LoopAbandoned,
		}
		return nil, nil
	}
	s.warn(r.ctx, "loop detected", "code", r.code)
	r.loopDetected = true
	// nothing is recorded, the statement is generated again with the loop prevention prompt
	s.History.Append(transcripts.InputPrompt{})
	return procs.Func[*round](s.dispatch), nil
}

func (s *Session) record(r *round) (step, error) {
	if r.fresh {
		s.History.Append(transcripts.Command{
			Code: r.code,
		})
	}
	if !strings.Contains(r.code, "\n") && strings.HasPrefix(strings.TrimSpace(r.code), "#") {
		s.History.Append(transcripts.InputPrompt{})
		return procs.Func[*round](s.dispatch), nil
	}
	return procs.Func[*round](s.execute), nil
}

func (s *Session) execute(r *round) (step, error) {
	if s.Functions != nil {
		if err := s.defineFunctions(r); err != nil {
			return s.handle(r, err)
		}
	}

	code := r.code
	s.current.Store(&code)
	result, err := s.Executor.Execute(r.ctx, code, s.Namespace.Globals())
	if err != nil {
		var yield *sandbox.Yield
		if errors.As(err, &yield) {
			s.log(r.ctx, "yield", "payload", yield.Payload)
			if s.ResetOnYield {
				s.Reset()
			}
			payload := yield.Payload
			if payload == nil {
				payload = starlark.None
			}
			r.outcome = Outcome{
				Kind:    Yielded,
				Payload: payload,
			}
			return nil, nil
		}
		return s.handle(r, err)
	}

	s.Handlers.Reset()
	s.Namespace.Bind(result.Changed)
	var items []transcripts.Item
	for _, v := range result.Values {
		if v == nil || v == starlark.None {
			continue
		}
		items = append(items, transcripts.Result{
			Content: sandbox.Repr(v),
		})
	}
	items = append(items, transcripts.InputPrompt{})
	s.History.Append(items...)
	s.Printer.Print("", items...)
	return procs.Func[*round](s.dispatch), nil
}

// defineFunctions defines undefined called functions and records their definitions before the pending statement.
func (s *Session) defineFunctions(r *round) error {
	defs, err := s.Functions.DefineMissing(r.ctx, r.code)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}
	pending := s.History.Pop()
	for _, def := range defs {
		s.History.Append(transcripts.Command{
			Code: def.Source,
		})
	}
	s.History.Append(pending)
	return nil
}

// handle lets the handler chain turn a fault into a hint, or ends the call.
func (s *Session) handle(r *round, err error) (step, error) {
	s.warn(r.ctx, "fault", "error", err)
	if err := s.Handlers.Handle(&s.History, err); err != nil {
		return nil, err
	}
	return procs.Func[*round](s.dispatch), nil
}
