package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type Example struct {
	Transcript string
	Queries    []Query
}

// Library holds static and learned example transcripts.
type Library struct {
	static  []string
	learned []string
	store   *Store

	examples []Example
	// incremented on every change
	version int
}

func NewLibrary(static []string, store *Store) (*Library, error) {
	l := &Library{
		static: static,
		store:  store,
	}
	if store != nil {
		learned, err := store.Load()
		if err != nil {
			return nil, err
		}
		l.learned = learned
	}
	return l, nil
}

func (l *Library) Len() int {
	return len(l.static) + len(l.learned)
}

func (l *Library) Version() int {
	return l.version
}

// Examples returns all examples with their extracted queries, static first.
func (l *Library) Examples() ([]Example, error) {
	if l.examples != nil {
		return l.examples, nil
	}
	examples := make([]Example, 0, l.Len())
	for _, transcript := range slices.Concat(l.static, l.learned) {
		queries, err := ExtractQueries(transcript)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", firstLine(transcript), err)
		}
		examples = append(examples, Example{
			Transcript: transcript,
			Queries:    queries,
		})
	}
	l.examples = examples
	return examples, nil
}

// Remember adds a learned example and persists all learned examples.
// Transcripts whose queries cannot be parsed are rejected.
func (l *Library) Remember(transcript string) error {
	if _, err := ExtractQueries(transcript); err != nil {
		return err
	}
	l.learned = append(l.learned, transcript)
	l.examples = nil
	l.version++
	if l.store != nil {
		if err := l.store.Save(l.learned); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) Learned() []string {
	return slices.Clone(l.learned)
}

// LoadExamples reads files matching the globs in sorted order.
func LoadExamples(globs []string) (ret []string, err error) {
	seen := make(map[string]bool)
	for _, glob := range globs {
		paths, err := filepath.Glob(glob)
		if err != nil {
			return nil, err
		}
		slices.Sort(paths)
		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			ret = append(ret, strings.TrimSpace(string(content)))
		}
	}
	return
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
