package namespaces

import (
	"slices"

	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

// Capabilities is the externally supplied set of operations a session may call.
type Capabilities interface {
	Names() []string
	Get(name string) (starlark.Value, bool)
	Meta(name string) (Meta, bool)
}

// Meta describes a capability for the declaration block.
type Meta struct {
	// parameter list without parentheses, like "text: str"
	Signature string
	Returns   string
	Comment   string
	// visibility group
	Group string
}

type CapabilitySet struct {
	names  []string
	values map[string]starlark.Value
	meta   map[string]Meta
}

var _ Capabilities = new(CapabilitySet)

func NewCapabilitySet() *CapabilitySet {
	return &CapabilitySet{
		values: make(map[string]starlark.Value),
		meta:   make(map[string]Meta),
	}
}

func (c *CapabilitySet) Define(name string, value starlark.Value, meta Meta) *CapabilitySet {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
	c.meta[name] = meta
	return c
}

// DefineFunc binds a Go function.
func (c *CapabilitySet) DefineFunc(name string, fn any, meta Meta) *CapabilitySet {
	return c.Define(name, starlarkutil.MakeFunc(name, fn), meta)
}

func (c *CapabilitySet) Names() []string {
	return slices.Clone(c.names)
}

func (c *CapabilitySet) Get(name string) (starlark.Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *CapabilitySet) Meta(name string) (Meta, bool) {
	m, ok := c.meta[name]
	return m, ok
}

// Visible exposes the upstream capabilities in the given groups plus the explicitly named ones.
type Visible struct {
	Upstream Capabilities
	Groups   []string
	Include  []string
}

var _ Capabilities = Visible{}

func (v Visible) visible(name string) bool {
	if slices.Contains(v.Include, name) {
		return true
	}
	meta, ok := v.Upstream.Meta(name)
	return ok && meta.Group != "" && slices.Contains(v.Groups, meta.Group)
}

func (v Visible) Names() (ret []string) {
	for _, name := range v.Upstream.Names() {
		if v.visible(name) {
			ret = append(ret, name)
		}
	}
	return
}

func (v Visible) Get(name string) (starlark.Value, bool) {
	if !v.visible(name) {
		return nil, false
	}
	return v.Upstream.Get(name)
}

func (v Visible) Meta(name string) (Meta, bool) {
	if !v.visible(name) {
		return Meta{}, false
	}
	return v.Upstream.Meta(name)
}
