package fgens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

var ErrNotDefined = errors.New("generated code does not define the function")

// Generator defines functions that are called but not defined, by asking a model to write them.
type Generator struct {
	LLM         llms.Generator
	Executor    *sandbox.Executor
	Namespace   *namespaces.Namespace
	Prompt      string
	QueryPrefix string
	QuerySuffix string
	Stop        []string
	Temperature *float64
	MaxTokens   int
	Logger      logs.Logger
}

type Definition struct {
	Name   string
	Source string
}

// DefineMissing defines every undefined function called in code, callees before callers.
func (g *Generator) DefineMissing(ctx context.Context, code string) ([]Definition, error) {
	calls, err := FindCalls(code)
	if err != nil {
		return nil, err
	}
	var ret []Definition
	pending := make(map[string]bool)
	for _, call := range calls {
		defs, err := g.define(ctx, call, pending)
		if err != nil {
			return nil, err
		}
		ret = append(ret, defs...)
	}
	return ret, nil
}

func (g *Generator) defined(name string) bool {
	return g.Namespace.Has(name) || g.Executor.Predeclared(name)
}

func (g *Generator) define(ctx context.Context, call Call, pending map[string]bool) (ret []Definition, err error) {
	if pending[call.Name] || g.defined(call.Name) {
		return nil, nil
	}
	pending[call.Name] = true
	defer delete(pending, call.Name)

	src, err := g.generate(ctx, call)
	if err != nil {
		return nil, err
	}

	// callees must resolve when the definition is executed
	children, err := bodyCalls(src)
	if err != nil {
		return nil, fmt.Errorf("generated %s: %w", call.Name, err)
	}
	for _, child := range children {
		defs, err := g.define(ctx, child, pending)
		if err != nil {
			return nil, err
		}
		ret = append(ret, defs...)
	}

	result, err := g.Executor.Execute(ctx, src, g.Namespace.Globals())
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", call.Name, err)
	}
	fn, ok := result.Changed[call.Name].(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDefined, call.Name)
	}
	g.Namespace.DefinePermanent(call.Name, fn, namespaces.Meta{})
	if g.Logger != nil {
		g.Logger.InfoContext(ctx, "function generated",
			"name", call.Name,
			"source", src,
		)
	}

	ret = append(ret, Definition{
		Name:   call.Name,
		Source: src,
	})
	return ret, nil
}

func (g *Generator) generate(ctx context.Context, call Call) (string, error) {
	prompt := strings.ReplaceAll(g.Prompt, declarationsPlaceholder, g.Namespace.Declarations())
	prompt += "\n" + g.QueryPrefix + call.Signature + g.QuerySuffix
	src, err := g.LLM.Generate(ctx, prompt, llms.GenerateOptions{
		Stop:        g.Stop,
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return extractCode(strings.TrimSpace(src)), nil
}

// extractCode takes the first fenced block if the text does not parse as code.
func extractCode(text string) string {
	if _, err := sandbox.Parse(text); err == nil {
		return text
	}
	start := strings.Index(text, "```")
	if start == -1 {
		return text
	}
	text = text[start+3:]
	if end := strings.Index(text, "```"); end != -1 {
		text = text[:end]
	}
	text = strings.TrimPrefix(text, "python")
	return strings.TrimSpace(text)
}
