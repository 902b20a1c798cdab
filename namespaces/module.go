package namespaces

import (
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

type NewNamespace func(caps Capabilities) *Namespace

func (Module) NewNamespace() NewNamespace {
	return New
}
