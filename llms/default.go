package llms

import (
	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/vars"
)

type GetDefaultGenerator func() (Generator, error)

func (Module) GetDefaultGenerator(
	name DefaultModelName,
	get GetGenerator,
) GetDefaultGenerator {
	return func() (Generator, error) {
		return get(string(name))
	}
}

var (
	defaultModelName     = cmds.Var[string]("-model")
	defaultEmbeddingName = cmds.Var[string]("-embedding-model")
)

type DefaultModelName string

func (Module) DefaultModelName(
	loader configs.Loader,
	fallback FallbackModelName,
	logger logs.Logger,
) (ret DefaultModelName) {
	defer func() {
		logger.Info("default model", "name", ret)
	}()
	return vars.FirstNonZero(
		DefaultModelName(*defaultModelName),
		configs.First[DefaultModelName](loader, "model_name"),
		configs.First[DefaultModelName](loader, "model"),
		DefaultModelName(fallback),
	)
}

type FallbackModelName string

func (Module) FallbackModelName() FallbackModelName {
	return "deepseek-chat"
}

type GetDefaultEmbedder func() (Embedder, error)

func (Module) GetDefaultEmbedder(
	name DefaultEmbeddingModelName,
	get GetEmbedder,
) GetDefaultEmbedder {
	return func() (Embedder, error) {
		return get(string(name))
	}
}

type DefaultEmbeddingModelName string

func (Module) DefaultEmbeddingModelName(
	loader configs.Loader,
	logger logs.Logger,
) (ret DefaultEmbeddingModelName) {
	defer func() {
		logger.Info("default embedding model", "name", ret)
	}()
	return vars.FirstNonZero(
		DefaultEmbeddingModelName(*defaultEmbeddingName),
		configs.First[DefaultEmbeddingModelName](loader, "embedding_model"),
		"text-embedding-3-small",
	)
}
