package learns

import "context"

// Learner turns a recorded interaction into an example worth remembering.
// ok is false when there is nothing to remember.
type Learner interface {
	Learn(ctx context.Context, interaction string, declarations string) (improved string, ok bool, err error)
}

type LearnerFunc func(ctx context.Context, interaction string, declarations string) (string, bool, error)

var _ Learner = LearnerFunc(nil)

func (l LearnerFunc) Learn(ctx context.Context, interaction string, declarations string) (string, bool, error) {
	return l(ctx, interaction, declarations)
}

// Unmodified remembers interactions as they are.
type Unmodified struct{}

var _ Learner = Unmodified{}

func (Unmodified) Learn(_ context.Context, interaction string, _ string) (string, bool, error) {
	return interaction, true, nil
}
