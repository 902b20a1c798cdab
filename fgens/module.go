package fgens

import (
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/replconfigs"
	"github.com/reusee/tairepl/sandbox"
)

type Module struct {
	dscope.Module
	LLMs        llms.Module
	ReplConfigs replconfigs.Module
}

// NewGenerator returns nil when function generation is disabled.
type NewGenerator func(executor *sandbox.Executor, namespace *namespaces.Namespace) (*Generator, error)

func (Module) NewGenerator(
	enabled replconfigs.FunctionGeneration,
	loader configs.Loader,
	getGenerator llms.GetGenerator,
	getDefault llms.GetDefaultGenerator,
	logger logs.Logger,
) NewGenerator {
	return func(executor *sandbox.Executor, namespace *namespaces.Namespace) (*Generator, error) {
		if !enabled {
			return nil, nil
		}
		var generator llms.Generator
		var err error
		if name := configs.First[string](loader, "fgen_model"); name != "" {
			generator, err = getGenerator(name)
		} else {
			generator, err = getDefault()
		}
		if err != nil {
			return nil, err
		}
		prompt := DefaultPrompt
		if path := configs.First[string](loader, "fgen_prompt_file"); path != "" {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			prompt = string(content)
		}
		return &Generator{
			LLM:         generator,
			Executor:    executor,
			Namespace:   namespace,
			Prompt:      prompt,
			QueryPrefix: DefaultQueryPrefix,
			QuerySuffix: DefaultQuerySuffix,
			Stop:        DefaultStop,
			Logger:      logger,
		}, nil
	}
}
