package repls

import (
	"errors"
	"strings"

	"github.com/reusee/tairepl/handlers"
	"github.com/reusee/tairepl/prompts"
	"github.com/reusee/tairepl/sandbox"
	"github.com/reusee/tairepl/transcripts"
	"go.starlark.net/starlark"
)

const learnFunction = "learn_from_interaction"

// learnBuiltin records the current interaction as an example, rewritten by the learner.
func (s *Session) learnBuiltin() *starlark.Builtin {
	return starlark.NewBuiltin(learnFunction, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		ctx := sandbox.Context(thread)

		if !s.AllowLearnWithoutRequest && !s.followsRequest() {
			return nil, handlers.NewHint("Ignoring " + learnFunction + " call since it did not happen on explicit user request.")
		}
		if s.Learner == nil {
			s.warn(ctx, "no learner configured")
			return starlark.None, nil
		}

		interaction := transcripts.PromptMarker + " " + prompts.TriggerStatement + "\n" + s.History.String()
		improved, ok, err := s.Learner.Learn(ctx, interaction, s.Namespace.Declarations(s.Exclude...))
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log(ctx, "nothing learned")
			return starlark.None, nil
		}
		if s.Builder == nil || s.Builder.Library == nil {
			s.warn(ctx, "no example library")
			return starlark.None, nil
		}
		s.log(ctx, "remembering", "example", improved)
		if err := s.Builder.Library.Remember(improved); err != nil {
			if errors.Is(err, prompts.ErrBadQuery) || errors.Is(err, prompts.ErrUnknownQueryType) {
				s.warn(ctx, "will not save an interaction that does not parse", "error", err)
				return starlark.None, nil
			}
			return nil, err
		}
		s.say(ctx, prompts.LearnedMessage)
		return starlark.None, nil
	})
}

// followsRequest reports whether the statement being executed directly answers a user request.
func (s *Session) followsRequest() bool {
	items := s.History.Items
	if len(items) < 2 {
		return false
	}
	if _, ok := items[len(items)-1].(transcripts.Command); !ok {
		return false
	}
	if _, ok := items[len(items)-2].(transcripts.Result); !ok {
		return false
	}
	if len(items) == 2 {
		// the history starts after an implicit trigger
		return true
	}
	trigger, ok := items[len(items)-3].(transcripts.Command)
	return ok && strings.HasSuffix(trigger.Code, prompts.TriggerStatement)
}
