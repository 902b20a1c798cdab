package namespaces

import (
	"slices"
	"strings"

	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

func declarable(name string) bool {
	return !strings.HasPrefix(name, "_") &&
		!strings.Contains(name, "__") &&
		name != "exec" &&
		name != "eval"
}

// Declarations renders permanent definitions and capabilities, sorted by name.
// Plain values are listed by name first, then callables as def lines.
func (n *Namespace) Declarations(exclude ...string) string {
	names := make(map[string]bool)
	for name := range n.permanent {
		names[name] = true
	}
	for _, name := range n.Capabilities.Names() {
		names[name] = true
	}
	var sorted []string
	for name := range names {
		if !declarable(name) || slices.Contains(exclude, name) {
			continue
		}
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	var values []string
	var defs []string
	for _, name := range sorted {
		v, ok := n.permanent[name]
		if !ok {
			v, _ = n.Capabilities.Get(name)
		}
		meta, _ := n.meta(name)
		if _, ok := v.(starlark.Callable); !ok {
			values = append(values, name)
			continue
		}
		defs = append(defs, declareFunc(name, v, meta))
	}

	var b strings.Builder
	for _, name := range values {
		b.WriteString(name)
		b.WriteString("\n")
	}
	if len(values) > 0 && len(defs) > 0 {
		b.WriteString("\n")
	}
	for _, def := range defs {
		b.WriteString(def)
		b.WriteString("\n")
	}
	return b.String()
}

func declareFunc(name string, v starlark.Value, meta Meta) string {
	var b strings.Builder
	b.WriteString("def ")
	b.WriteString(name)
	b.WriteString("(")
	if meta.Signature != "" {
		b.WriteString(meta.Signature)
	} else if fn, ok := v.(*starlark.Function); ok {
		b.WriteString(params(fn))
	}
	b.WriteString(")")
	if meta.Returns != "" {
		b.WriteString(" -> ")
		b.WriteString(meta.Returns)
	}
	if meta.Comment != "" {
		b.WriteString("  # ")
		b.WriteString(meta.Comment)
	}
	return b.String()
}

// params renders a parameter list. Parameters are laid out as
// positional, keyword-only, *args, **kwargs.
func params(fn *starlark.Function) string {
	n := fn.NumParams()
	kwonly := fn.NumKwonlyParams()
	positional := n - kwonly
	var varargs, kwargs string
	if fn.HasKwargs() {
		positional--
		kwargs, _ = fn.Param(n - 1)
	}
	if fn.HasVarargs() {
		positional--
		varargs, _ = fn.Param(positional + kwonly)
	}

	var parts []string
	param := func(i int) string {
		name, _ := fn.Param(i)
		if d := fn.ParamDefault(i); d != nil {
			return name + "=" + sandbox.Repr(d)
		}
		return name
	}
	for i := range positional {
		parts = append(parts, param(i))
	}
	if varargs != "" {
		parts = append(parts, "*"+varargs)
	} else if kwonly > 0 {
		parts = append(parts, "*")
	}
	for i := positional; i < positional+kwonly; i++ {
		parts = append(parts, param(i))
	}
	if kwargs != "" {
		parts = append(parts, "**"+kwargs)
	}
	return strings.Join(parts, ", ")
}
