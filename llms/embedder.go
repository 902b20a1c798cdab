package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/nets"
)

// Embedder maps texts to vectors, one per text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type EmbedderFunc func(ctx context.Context, texts []string) ([][]float64, error)

var _ Embedder = EmbedderFunc(nil)

func (e EmbedderFunc) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return e(ctx, texts)
}

type EmbedderSpec struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type OpenAIEmbedder struct {
	spec   EmbedderSpec
	client nets.HTTPClient

	Logger dscope.Inject[logs.Logger]
}

var _ Embedder = new(OpenAIEmbedder)

type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type EmbeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(EmbeddingRequest{
		Model: o.spec.Model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", strings.TrimSuffix(o.spec.BaseURL, "/")+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if o.spec.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.spec.APIKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	o.Logger().DebugContext(ctx, "embedding",
		"model", o.spec.Model,
		"texts", len(texts),
	)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, OpenAIError{
			Err:   err,
			Model: o.spec.Model,
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, o.spec.Model)
	}

	var embResp EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}
	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("expecting %d embeddings, got %d", len(texts), len(embResp.Data))
	}
	sort.SliceStable(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})
	ret := make([][]float64, 0, len(texts))
	for _, data := range embResp.Data {
		ret = append(ret, data.Embedding)
	}
	return ret, nil
}

type NewOpenAIEmbedder func(spec EmbedderSpec) *OpenAIEmbedder

func (Module) NewOpenAIEmbedder(
	inject dscope.InjectStruct,
	client nets.HTTPClient,
) NewOpenAIEmbedder {
	return func(spec EmbedderSpec) *OpenAIEmbedder {
		ret := &OpenAIEmbedder{
			spec:   spec,
			client: client,
		}
		inject(&ret)
		return ret
	}
}

type GetEmbedderSpecs func() ([]EmbedderSpec, error)

func (Module) GetEmbedderSpecs(
	loader configs.Loader,
) GetEmbedderSpecs {
	return sync.OnceValues(func() (ret []EmbedderSpec, err error) {
		for value, err := range loader.IterCueValues("embedders") {
			if err != nil {
				return nil, err
			}
			var specs []EmbedderSpec
			if err := value.Decode(&specs); err != nil {
				return nil, err
			}
			ret = append(ret, specs...)
		}
		return
	})
}

type GetEmbedder func(name string) (Embedder, error)

func (Module) GetEmbedder(
	getSpecs GetEmbedderSpecs,
	newEmbedder NewOpenAIEmbedder,
	openAIKey OpenAIAPIKey,
) GetEmbedder {
	return func(name string) (Embedder, error) {
		specs, err := getSpecs()
		if err != nil {
			return nil, err
		}
		for _, spec := range specs {
			if spec.Name != name {
				continue
			}
			if spec.BaseURL == "" {
				spec.BaseURL = openAIBaseURL
				if spec.APIKey == "" {
					spec.APIKey = string(openAIKey)
				}
			}
			if spec.Model == "" {
				spec.Model = name
			}
			return newEmbedder(spec), nil
		}

		provider, modelName, ok := strings.Cut(name, ":")
		if ok && provider == "ollama" {
			return newEmbedder(EmbedderSpec{
				Name:    name,
				BaseURL: ollamaBaseURL,
				Model:   modelName,
			}), nil
		}

		switch name {
		case "text-embedding-3-small", "text-embedding-3-large":
			return newEmbedder(EmbedderSpec{
				Name:    name,
				BaseURL: openAIBaseURL,
				APIKey:  string(openAIKey),
				Model:   name,
			}), nil
		}

		return nil, fmt.Errorf("invalid embedding model: %s", name)
	}
}
