package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/repls"
)

type Module struct {
	dscope.Module
	Repls repls.Module
}
