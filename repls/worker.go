package repls

import (
	"context"

	"github.com/reusee/tairepl/syncs"
)

// Worker runs calls of a session in the background, one at a time.
type Worker struct {
	Session *Session
	sem     syncs.Semaphore
}

func NewWorker(session *Session) *Worker {
	return &Worker{
		Session: session,
		sem:     syncs.NewSemaphore(1),
	}
}

// Submit starts a call. It fails with ErrBusy if one is in flight.
// The channel receives the outcome and is closed.
func (w *Worker) Submit(ctx context.Context, query string) (<-chan Outcome, error) {
	return w.start(func() Outcome {
		return w.Session.Run(ctx, w.Session.ParseQuery(query))
	})
}

// Schedule starts executing code as if the model wrote it.
func (w *Worker) Schedule(ctx context.Context, code string) (<-chan Outcome, error) {
	return w.start(func() Outcome {
		return w.Session.Schedule(ctx, code)
	})
}

func (w *Worker) start(fn func() Outcome) (<-chan Outcome, error) {
	if !w.sem.TryAcquire() {
		return nil, ErrBusy
	}
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		defer w.sem.Release()
		ch <- fn()
	}()
	return ch, nil
}

func (w *Worker) Interrupt() {
	w.Session.Interrupt()
}

// Wait blocks until no call is in flight.
func (w *Worker) Wait() {
	w.sem.Acquire()
	w.sem.Release()
}
