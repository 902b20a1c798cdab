package learns

import (
	"fmt"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/vars"
)

type Module struct {
	dscope.Module
	LLMs llms.Module
}

var learnerFlag = cmds.Var[string]("-learner")

// NewLearner returns nil when learning is disabled.
type NewLearner func() (Learner, error)

func (Module) NewLearner(
	loader configs.Loader,
	getGenerator llms.GetGenerator,
	getDefault llms.GetDefaultGenerator,
	logger logs.Logger,
) NewLearner {
	return func() (Learner, error) {
		kind := vars.FirstNonZero(
			*learnerFlag,
			configs.First[string](loader, "learner"),
			"none",
		)
		switch kind {

		case "none":
			return nil, nil

		case "unmodified":
			return Unmodified{}, nil

		case "chat":
			var generator llms.Generator
			var err error
			if name := configs.First[string](loader, "learner_model"); name != "" {
				generator, err = getGenerator(name)
			} else {
				generator, err = getDefault()
			}
			if err != nil {
				return nil, err
			}
			var fewShot []Message
			if path := configs.First[string](loader, "learner_examples_file"); path != "" {
				fewShot, err = LoadMessages(path)
				if err != nil {
					return nil, err
				}
			}
			return &Chat{
				Generator: generator,
				FewShot:   fewShot,
				Logger:    logger,
			}, nil

		}
		return nil, fmt.Errorf("unknown learner: %s", kind)
	}
}
