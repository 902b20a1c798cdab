package llms

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/modes"
)

func TestGeneratorSpecs(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader([]string{"testdata/generator_specs.cue"}, "")
		},
	).Call(func(
		get GetGenerator,
		getEmbedder GetEmbedder,
	) {

		g, err := get("foo")
		if err != nil {
			t.Fatal(err)
		}
		if args := g.(*OpenAI).Args(); args.Model != "foo-model" {
			t.Fatalf("got %+v", args)
		}

		g, err = get("bar")
		if err != nil {
			t.Fatal(err)
		}
		if args := g.(*OpenAI).Args(); args.BaseURL != ollamaBaseURL {
			t.Fatalf("got %+v", args)
		}

		if _, err := get("bad"); err == nil {
			t.Fatal("should error")
		}
		if _, err := get("not-exists"); err == nil {
			t.Fatal("should error")
		}

		g, err = get("ollama:llama3")
		if err != nil {
			t.Fatal(err)
		}
		if args := g.(*OpenAI).Args(); args.Model != "llama3" {
			t.Fatalf("got %+v", args)
		}

		e, err := getEmbedder("emb")
		if err != nil {
			t.Fatal(err)
		}
		if e.(*OpenAIEmbedder).spec.Model != "emb-model" {
			t.Fatalf("got %+v", e)
		}
		if _, err := getEmbedder("nope"); err == nil {
			t.Fatal("should error")
		}

	})
}

func TestGetDefaultGenerator(t *testing.T) {
	loader := configs.NewLoader([]string{}, "")
	dscope.New(
		new(Module),
		&loader,
		modes.ForTest(t),
	).Call(func(
		get GetDefaultGenerator,
		getEmbedder GetDefaultEmbedder,
	) {
		if _, err := get(); err != nil {
			t.Fatal(err)
		}
		if _, err := getEmbedder(); err != nil {
			t.Fatal(err)
		}
	})
}
