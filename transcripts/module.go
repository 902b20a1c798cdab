package transcripts

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func (Module) Printer(
	writer logs.Writer,
) *Printer {
	return &Printer{
		Writer: writer,
	}
}
