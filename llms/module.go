package llms

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/nets"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Nets    nets.Module
	Logs    logs.Module
}
