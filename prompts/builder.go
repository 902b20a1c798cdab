package prompts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/reusee/tairepl/llms"
)

var ErrNoEmbedder = errors.New("no embedder")

// Builder assembles the instruction prompt from the base prompt and the examples most similar to the recent queries.
type Builder struct {
	Base           string
	LoopPrevention string
	Suffix         string
	Separator      string
	Library        *Library
	Embedder       llms.Embedder
	TopK           int
	KeepLastN      int
	Decay          float64

	cacheVersion int
	// one row per example query
	embeddings [][]float64
	queryTypes []string
	// example index of each row
	indexes []int
	cached  bool
}

func (b *Builder) Build(ctx context.Context, transcript string, loopDetected bool) (string, error) {
	var suffix string
	if b.Suffix != "" {
		suffix = b.Separator + b.Suffix
	}

	if loopDetected {
		return b.Base + b.Separator + b.LoopPrevention + suffix, nil
	}

	if b.Library == nil || b.Library.Len() == 0 {
		return b.Base + suffix, nil
	}

	queries, err := ExtractQueries(transcript)
	if err != nil {
		return "", err
	}
	slices.Reverse(queries)
	if len(queries) > b.KeepLastN {
		queries = queries[:b.KeepLastN]
	}
	if len(queries) == 0 {
		return b.Base + suffix, nil
	}

	if b.Embedder == nil {
		return "", ErrNoEmbedder
	}

	// most recent first
	combined, types, err := b.combine(ctx, queries)
	if err != nil {
		return "", err
	}

	if err := b.prepare(ctx); err != nil {
		return "", err
	}
	type candidate struct {
		similarity float64
		example    int
	}
	var candidates []candidate
	for i, row := range b.embeddings {
		if !types[b.queryTypes[i]] {
			continue
		}
		candidates = append(candidates, candidate{
			similarity: cosine(combined, row),
			example:    b.indexes[i],
		})
	}
	slices.SortStableFunc(candidates, func(x, y candidate) int {
		switch {
		case x.similarity > y.similarity:
			return -1
		case x.similarity < y.similarity:
			return 1
		}
		return 0
	})

	examples, err := b.Library.Examples()
	if err != nil {
		return "", err
	}
	var picked []string
	for _, c := range candidates {
		if len(picked) == b.TopK {
			break
		}
		transcript := examples[c.example].Transcript
		if slices.Contains(picked, transcript) {
			continue
		}
		picked = append(picked, transcript)
	}
	// nearest last
	slices.Reverse(picked)

	return b.Base + b.Separator + strings.Join(picked, b.Separator) + suffix, nil
}

func (b *Builder) combine(ctx context.Context, queries []Query) ([]float64, map[string]bool, error) {
	texts := make([]string, 0, len(queries))
	types := make(map[string]bool)
	for _, query := range queries {
		payload, err := query.Payload()
		if err != nil {
			return nil, nil, err
		}
		texts = append(texts, payload)
		types[query.Type] = true
	}
	vectors, err := b.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != len(texts) {
		return nil, nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors))
	}
	var combined []float64
	weight := 1.0
	for _, vector := range vectors {
		if combined == nil {
			combined = make([]float64, len(vector))
		}
		if len(vector) != len(combined) {
			return nil, nil, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(vector), len(combined))
		}
		for i, x := range vector {
			combined[i] += x * weight
		}
		weight *= b.Decay
	}
	return combined, types, nil
}

func (b *Builder) prepare(ctx context.Context) error {
	if b.cached && b.cacheVersion == b.Library.Version() {
		return nil
	}
	examples, err := b.Library.Examples()
	if err != nil {
		return err
	}
	var texts []string
	var types []string
	var indexes []int
	for i, example := range examples {
		for _, query := range example.Queries {
			payload, err := query.Payload()
			if err != nil {
				return fmt.Errorf("example %q: %w", firstLine(example.Transcript), err)
			}
			texts = append(texts, payload)
			types = append(types, query.Type)
			indexes = append(indexes, i)
		}
	}
	var embeddings [][]float64
	if len(texts) > 0 {
		embeddings, err = b.Embedder.Embed(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddings))
		}
	}
	b.embeddings = embeddings
	b.queryTypes = types
	b.indexes = indexes
	b.cacheVersion = b.Library.Version()
	b.cached = true
	return nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
