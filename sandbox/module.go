package sandbox

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/replconfigs"
)

type Module struct {
	dscope.Module
	Logs        logs.Module
	ReplConfigs replconfigs.Module
}

func (Module) Executor(
	maxDepth replconfigs.MaxRecursionDepth,
	maxSteps replconfigs.MaxExecutionSteps,
	logger logs.Logger,
) *Executor {
	return &Executor{
		MaxDepth:       int(maxDepth),
		MaxSteps:       uint64(maxSteps),
		ResultFunction: DefaultResultFunction,
		Logger:         logger,
	}
}

// DefaultResultFunction ends a nested call with its keyword arguments.
const DefaultResultFunction = "return_result"
