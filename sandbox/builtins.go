package sandbox

import (
	"context"

	"go.starlark.net/starlark"
)

var neutered = []string{
	"exec",
	"eval",
	"compile",
	"open",
	"input",
	"exit",
}

func noop(name string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
		return starlark.None, nil
	})
}

var arrayBuiltin = starlark.NewBuiltin("array", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	return ArrayFromValue(v)
})

// NewResultFunction returns a builtin that ends the current call, its keyword arguments becoming the payload.
func NewResultFunction(name string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) > 0 {
			return nil, fault(ErrTypeMismatch, "%s: accepts keyword arguments only", name)
		}
		payload := starlark.NewDict(len(kwargs))
		for _, kv := range kwargs {
			if err := payload.SetKey(kv[0], kv[1]); err != nil {
				return nil, err
			}
		}
		return nil, &Yield{
			Payload: payload,
		}
	})
}

const contextLocalKey = "sandbox.context"

// Context returns the context of the execution running on thread.
func Context(thread *starlark.Thread) context.Context {
	if thread != nil {
		if ctx, ok := thread.Local(contextLocalKey).(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}
