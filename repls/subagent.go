package repls

import (
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

// SubAgent exposes a nested session as a function taking a query.
type SubAgent struct {
	Name    string
	Meta    namespaces.Meta
	Session *Session
}

func (a *SubAgent) Builtin() *starlark.Builtin {
	return starlark.NewBuiltin(a.Name, func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var query string
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &query); err != nil {
			return nil, err
		}
		outcome := a.Session.Run(sandbox.Context(thread), a.Session.ParseQuery(query))
		switch outcome.Kind {
		case Fatal:
			return nil, outcome.Err
		case Yielded:
			return outcome.Payload, nil
		}
		return starlark.None, nil
	})
}

// Bind defines the agent permanently in ns.
func (a *SubAgent) Bind(ns *namespaces.Namespace) {
	meta := a.Meta
	if meta.Signature == "" {
		meta.Signature = "query"
	}
	ns.DefinePermanent(a.Name, a.Builtin(), meta)
}
