package handlers

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/replconfigs"
)

type Module struct {
	dscope.Module
	ReplConfigs replconfigs.Module
}

// NewChain builds a fresh chain with its own counters.
type NewChain func() (Chain, error)

func (Module) NewChain(
	specs replconfigs.ErrorHandlerSpecs,
) NewChain {
	return func() (Chain, error) {
		return FromSpecs(specs)
	}
}
