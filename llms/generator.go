package llms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reusee/tairepl/vars"
)

// Generator completes a prompt. Generation stops before any of the stop sequences.
type Generator interface {
	Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error)
}

type GenerateOptions struct {
	Stop        []string
	Temperature *float64
	MaxTokens   int
}

var ErrRetryable = errors.New("retryable")

type GeneratorFunc func(ctx context.Context, prompt string, options GenerateOptions) (string, error)

var _ Generator = GeneratorFunc(nil)

func (g GeneratorFunc) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {
	return g(ctx, prompt, options)
}

type GetGenerator func(name string) (Generator, error)

func (Module) GetGenerator(
	newOpenAI NewOpenAI,
	newOpenRouter NewOpenRouter,
	newDeepseek NewDeepseek,
	getSpecs GetGeneratorSpecs,
	openAIKey OpenAIAPIKey,
) GetGenerator {
	return func(name string) (Generator, error) {

		// user-defined first
		specs, err := getSpecs()
		if err != nil {
			return nil, err
		}
		for _, spec := range specs {
			if spec.Name != name {
				continue
			}
			switch strings.ToLower(spec.Type) {
			case "openai", "open-ai", "open_ai":
				if spec.BaseURL == "" {
					spec.BaseURL = openAIBaseURL
				}
				return newOpenAI(spec.GeneratorArgs, vars.FirstNonZero(spec.APIKey, string(openAIKey))), nil
			case "open-router", "open_router", "openrouter":
				return newOpenRouter(spec.GeneratorArgs), nil
			case "deepseek":
				return newDeepseek(spec.GeneratorArgs), nil
			case "ollama":
				spec.GeneratorArgs.BaseURL = ollamaBaseURL
				return newOpenAI(spec.GeneratorArgs, ""), nil
			default:
				return nil, fmt.Errorf("unknown generator type: %q", spec.Type)
			}
		}

		// ollama
		provider, modelName, ok := strings.Cut(name, ":")
		if ok && provider == "ollama" {
			return newOpenAI(GeneratorArgs{
				BaseURL: ollamaBaseURL,
				Model:   modelName,
			}, ""), nil
		}

		// built-ins
		switch name {

		case "deepseek", "deepseek-chat":
			return newDeepseek(GeneratorArgs{
				Model: "deepseek-chat",
			}), nil

		case "gpt", "gpt-4.1-mini":
			return newOpenAI(GeneratorArgs{
				BaseURL: openAIBaseURL,
				Model:   "gpt-4.1-mini",
			}, string(openAIKey)), nil

		}

		return nil, fmt.Errorf("invalid model: %s", name)
	}
}

const (
	openAIBaseURL = "https://api.openai.com/v1"
	ollamaBaseURL = "http://127.0.0.1:11434/v1"
)
