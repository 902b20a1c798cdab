package llms

import (
	"context"
	"errors"
	"time"
)

// Retrying retries Generate on ErrRetryable, at most Max extra attempts.
type Retrying struct {
	Upstream Generator
	Max      int
	Backoff  time.Duration
}

var _ Generator = Retrying{}

func (r Retrying) Generate(ctx context.Context, prompt string, options GenerateOptions) (ret string, err error) {
	for i := 0; ; i++ {
		ret, err = r.Upstream.Generate(ctx, prompt, options)
		if err == nil || !errors.Is(err, ErrRetryable) || i >= r.Max {
			return
		}
		if r.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ret, ctx.Err()
			case <-time.After(r.Backoff * time.Duration(i+1)):
			}
		}
	}
}
