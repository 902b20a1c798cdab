package namespaces

import (
	"fmt"
	"maps"

	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

// Namespace resolves names in order: locals, predefined globals, permanent definitions, capabilities.
type Namespace struct {
	Capabilities Capabilities

	locals        starlark.StringDict
	predefined    starlark.StringDict
	permanent     starlark.StringDict
	permanentMeta map[string]Meta
}

func New(caps Capabilities) *Namespace {
	if caps == nil {
		caps = NewCapabilitySet()
	}
	return &Namespace{
		Capabilities:  caps,
		locals:        make(starlark.StringDict),
		predefined:    make(starlark.StringDict),
		permanent:     make(starlark.StringDict),
		permanentMeta: make(map[string]Meta),
	}
}

func (n *Namespace) Lookup(name string) (starlark.Value, error) {
	if v, ok := n.locals[name]; ok {
		return v, nil
	}
	if v, ok := n.predefined[name]; ok {
		return v, nil
	}
	if v, ok := n.permanent[name]; ok {
		return v, nil
	}
	if v, ok := n.Capabilities.Get(name); ok {
		return v, nil
	}
	return nil, &sandbox.Fault{
		Kind: sandbox.ErrNameResolution,
		Err:  fmt.Errorf("name %q is not defined", name),
	}
}

func (n *Namespace) Has(name string) bool {
	_, err := n.Lookup(name)
	return err == nil
}

func (n *Namespace) Set(name string, value starlark.Value) {
	n.locals[name] = value
}

// Bind stores changed bindings as locals.
func (n *Namespace) Bind(changed starlark.StringDict) {
	maps.Copy(n.locals, changed)
}

// Predefine adds a global that is available but never declared.
func (n *Namespace) Predefine(name string, value starlark.Value) {
	n.predefined[name] = value
}

// DefinePermanent adds a definition that survives Clear and is declared alongside capabilities.
func (n *Namespace) DefinePermanent(name string, value starlark.Value, meta Meta) {
	n.permanent[name] = value
	n.permanentMeta[name] = meta
}

func (n *Namespace) Permanent(name string) (starlark.Value, bool) {
	v, ok := n.permanent[name]
	return v, ok
}

func (n *Namespace) Locals() starlark.StringDict {
	return maps.Clone(n.locals)
}

// Clear drops locals only.
func (n *Namespace) Clear() {
	clear(n.locals)
}

// Globals materializes the resolution chain.
func (n *Namespace) Globals() starlark.StringDict {
	ret := make(starlark.StringDict)
	for _, name := range n.Capabilities.Names() {
		if !declarable(name) {
			continue
		}
		if v, ok := n.Capabilities.Get(name); ok {
			ret[name] = v
		}
	}
	maps.Copy(ret, n.permanent)
	maps.Copy(ret, n.predefined)
	maps.Copy(ret, n.locals)
	return ret
}

func (n *Namespace) meta(name string) (Meta, bool) {
	if m, ok := n.permanentMeta[name]; ok {
		return m, true
	}
	return n.Capabilities.Meta(name)
}
