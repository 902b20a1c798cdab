package replconfigs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/modes"
)

func TestDefaults(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader(nil, Schema)
		},
	).Call(func(
		maxRounds MaxRounds,
		depth MaxRecursionDepth,
		topK TopK,
		keep QueryKeepLastN,
		decay QueryHistoryDecay,
		resetOnYield ResetOnYield,
		specs ErrorHandlerSpecs,
	) {
		if maxRounds != 100 {
			t.Fatalf("got %v", maxRounds)
		}
		if depth != 10 {
			t.Fatalf("got %v", depth)
		}
		if topK != 2 {
			t.Fatalf("got %v", topK)
		}
		if keep != 3 {
			t.Fatalf("got %v", keep)
		}
		if decay != 0.6 {
			t.Fatalf("got %v", decay)
		}
		if !resetOnYield {
			t.Fatal("should be true")
		}
		if len(specs) != 0 {
			t.Fatalf("got %v", specs)
		}
	})
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tairepl.cue")
	if err := os.WriteFile(path, []byte(`
max_rounds: 7
top_k: 4
reset_on_yield: true
example_globs: ["a/*.prompt.py", "b/*.prompt.py"]
error_handlers: [
	{type: "import", max: 1},
	{type: "semantic"},
]
`), 0644); err != nil {
		t.Fatal(err)
	}

	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader([]string{path}, Schema)
		},
	).Call(func(
		maxRounds MaxRounds,
		topK TopK,
		resetOnYield ResetOnYield,
		globs ExampleGlobs,
		specs ErrorHandlerSpecs,
	) {
		if maxRounds != 7 {
			t.Fatalf("got %v", maxRounds)
		}
		if topK != 4 {
			t.Fatalf("got %v", topK)
		}
		if !resetOnYield {
			t.Fatal("should be true")
		}
		if len(globs) != 2 {
			t.Fatalf("got %v", globs)
		}
		if len(specs) != 2 {
			t.Fatalf("got %v", specs)
		}
		if specs[0].Type != "import" || specs[0].Max == nil || *specs[0].Max != 1 {
			t.Fatalf("got %+v", specs[0])
		}
		if specs[1].Max != nil {
			t.Fatalf("got %+v", specs[1])
		}
	})
}

func TestSchemaRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tairepl.cue")
	if err := os.WriteFile(path, []byte(`max_roundz: 7`), 0644); err != nil {
		t.Fatal(err)
	}
	loader := configs.NewLoader([]string{path}, Schema)
	var n int
	if err := loader.AssignFirst("max_rounds", &n); err == nil {
		t.Fatal("should error")
	}
}

func TestResetOnYieldFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tairepl.cue")
	if err := os.WriteFile(path, []byte(`reset_on_yield: true`), 0644); err != nil {
		t.Fatal(err)
	}
	defer func() {
		*resetOnYieldFlag = ""
	}()

	for _, c := range []struct {
		flag     string
		config   string
		expected bool
	}{
		{"", "", true},
		{"", path, true},
		{"false", path, false},
		{"true", "", true},
		{"0", "", false},
		{"bogus", "", true},
	} {
		*resetOnYieldFlag = c.flag
		var paths []string
		if c.config != "" {
			paths = append(paths, c.config)
		}
		dscope.New(
			modes.ForTest(t),
			new(Module),
		).Fork(
			func() configs.Loader {
				return configs.NewLoader(paths, Schema)
			},
		).Call(func(
			resetOnYield ResetOnYield,
		) {
			if bool(resetOnYield) != c.expected {
				t.Fatalf("%+v: got %v", c, resetOnYield)
			}
		})
	}

	falsePath := filepath.Join(dir, "off.cue")
	if err := os.WriteFile(falsePath, []byte(`reset_on_yield: false`), 0644); err != nil {
		t.Fatal(err)
	}
	*resetOnYieldFlag = ""
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader([]string{falsePath}, Schema)
		},
	).Call(func(
		resetOnYield ResetOnYield,
	) {
		if resetOnYield {
			t.Fatal("should be false")
		}
	})
}
