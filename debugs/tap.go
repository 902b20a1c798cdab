package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap starts an interactive REPL over globals on the terminal. It returns when input ends.
type Tap func(ctx context.Context, what string, globals starlark.StringDict)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals starlark.StringDict) {
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "tap",
		}
		stop := context.AfterFunc(ctx, func() {
			thread.Cancel("tap cancelled")
		})
		defer stop()
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		}, thread, maps.Clone(globals))
	}
}

// TapValues converts Go values and taps them.
type TapValues func(ctx context.Context, what string, values map[string]any) error

func (Module) TapValues(
	tap Tap,
) TapValues {
	return func(ctx context.Context, what string, values map[string]any) error {
		globals := make(starlark.StringDict, len(values))
		for name, value := range values {
			v, err := sandbox.ToValue(value)
			if err != nil {
				return err
			}
			globals[name] = v
		}
		tap(ctx, what, globals)
		return nil
	}
}

var tapOnFatalFlag = cmds.Switch("-tap")

// TapOnFatal reports whether sessions open a tap over their namespace on fatal errors.
type TapOnFatal bool

func (Module) TapOnFatal() TapOnFatal {
	return TapOnFatal(*tapOnFatalFlag)
}
