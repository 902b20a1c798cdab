package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/modes"
	"github.com/reusee/tairepl/repls"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
	"golang.org/x/term"
)

var queryFlag = cmds.Var[string]("-query")

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		newSession repls.NewSession,
		logger logs.Logger,
	) {
		c := &console{
			in:  bufio.NewReader(os.Stdin),
			out: os.Stdout,
		}
		session, err := newSession("main", c.capabilities())
		ce(err)
		worker := repls.NewWorker(session)

		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)

		run := func(line string) {
			var outcomes <-chan repls.Outcome
			var err error
			if code, ok := strings.CutPrefix(line, ">>> "); ok {
				outcomes, err = worker.Schedule(ctx, code)
			} else {
				outcomes, err = worker.Submit(ctx, line)
			}
			ce(err)
			for {
				select {
				case <-interrupts:
					logger.Info("interrupt")
					worker.Interrupt()
				case outcome := <-outcomes:
					switch outcome.Kind {
					case repls.Fatal:
						logger.Error("fatal",
							"error", logs.WrapSpan(ctx, outcome.Err),
						)
					case repls.Yielded:
						if outcome.Payload != nil && outcome.Payload != starlark.None {
							fmt.Fprintln(c.out, sandbox.Repr(outcome.Payload))
						}
					}
					return
				}
			}
		}

		if *queryFlag != "" {
			run(*queryFlag)
			return
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		for {
			if interactive {
				fmt.Fprint(c.out, "> ")
			}
			line, err := c.readLine()
			if errors.Is(err, io.EOF) {
				return
			}
			ce(err)
			if strings.TrimSpace(line) == "" {
				continue
			}
			run(line)
		}
	})
}

func ce(err error) {
	if err != nil {
		panic(err)
	}
}
