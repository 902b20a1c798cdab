package prompts

import (
	"os"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/replconfigs"
)

type Module struct {
	dscope.Module
	ReplConfigs replconfigs.Module
	LLMs        llms.Module
}

func readPrompt(file string, fallback string) (string, error) {
	if file == "" {
		return fallback, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// GetLibrary returns the example library shared by all builders.
type GetLibrary func() (*Library, error)

func (Module) GetLibrary(
	globs replconfigs.ExampleGlobs,
	learned replconfigs.LearnedExamplesFile,
	logger logs.Logger,
) GetLibrary {
	return sync.OnceValues(func() (*Library, error) {
		static, err := LoadExamples(globs)
		if err != nil {
			return nil, err
		}
		var store *Store
		if learned != "" {
			store = &Store{
				Path: string(learned),
			}
		}
		library, err := NewLibrary(static, store)
		if err != nil {
			return nil, err
		}
		logger.Info("example library",
			"static", len(static),
			"learned", library.Len()-len(static),
		)
		return library, nil
	})
}

// NewBuilder returns a builder over the shared library.
type NewBuilder func() (*Builder, error)

func (Module) NewBuilder(
	baseFile replconfigs.BasePromptFile,
	loopPreventionFile replconfigs.LoopPreventionPromptFile,
	getLibrary GetLibrary,
	getEmbedder llms.GetDefaultEmbedder,
	topK replconfigs.TopK,
	keepLastN replconfigs.QueryKeepLastN,
	decay replconfigs.QueryHistoryDecay,
) NewBuilder {
	return func() (*Builder, error) {
		base, err := readPrompt(string(baseFile), DefaultBase)
		if err != nil {
			return nil, err
		}
		loopPrevention, err := readPrompt(string(loopPreventionFile), DefaultLoopPrevention)
		if err != nil {
			return nil, err
		}
		library, err := getLibrary()
		if err != nil {
			return nil, err
		}
		builder := &Builder{
			Base:           base,
			LoopPrevention: loopPrevention,
			Separator:      "\n",
			Library:        library,
			TopK:           int(topK),
			KeepLastN:      int(keepLastN),
			Decay:          float64(decay),
		}
		embedder, err := getEmbedder()
		if err != nil {
			if library.Len() > 0 {
				return nil, err
			}
			// only needed once something is learned
			embedder = nil
		}
		builder.Embedder = embedder
		return builder, nil
	}
}
