package llms

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/nets"
	"github.com/reusee/tairepl/vars"
)

var (
	debugOpenAI     = cmds.Switch("-debug-openai")
	temperatureFlag = cmds.Var[float64]("-temperature")
)

type OpenAI struct {
	args   GeneratorArgs
	apiKey string
	client nets.HTTPClient

	Logger dscope.Inject[logs.Logger]
}

var _ Generator = new(OpenAI)

func (o *OpenAI) Args() GeneratorArgs {
	return o.args
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error) {

	// explicit option, then flag, then configured
	var temperature *float64
	if options.Temperature != nil {
		temperature = options.Temperature
	} else if *temperatureFlag != 0 {
		temperature = temperatureFlag
	} else {
		temperature = o.args.Temperature
	}

	req := ChatCompletionRequest{
		Model: o.args.Model,
		Messages: []ChatCompletionMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Stream:              true,
		Stop:                options.Stop,
		Temperature:         temperature,
		MaxCompletionTokens: vars.FirstNonZero(options.MaxTokens, vars.DerefOr(o.args.MaxGenerateTokens, 0)),
	}

	o.Logger().InfoContext(ctx, "generating",
		"model", o.args.Model,
		"prompt bytes", len(prompt),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	if len(o.args.ExtraArguments) > 0 {
		var m map[string]any
		if err := json.Unmarshal(body, &m); err != nil {
			return "", err
		}
		maps.Copy(m, o.args.ExtraArguments)
		if body, err = json.Marshal(m); err != nil {
			return "", err
		}
	}
	if *debugOpenAI {
		o.Logger().InfoContext(ctx, "open ai request",
			"body", body,
		)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", strings.TrimSuffix(o.args.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", OpenAIError{
			Err:   err,
			Model: o.args.Model,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, o.args.Model)
	}

	var output strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "data: [DONE]") {
			break
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := line[6:]

		var streamResp ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
			return output.String(), fmt.Errorf("error unmarshalling stream response: %w", err)
		}

		if *debugOpenAI {
			o.Logger().InfoContext(ctx, "open ai response",
				"details", streamResp,
			)
		}

		if len(streamResp.Choices) == 0 {
			continue
		}
		choice := streamResp.Choices[0]
		output.WriteString(choice.Delta.Content)

		if choice.FinishReason == "error" {
			return output.String(), errors.Join(errors.New(choice.FinishReason), ErrRetryable)
		}
	}
	if err := scanner.Err(); err != nil {
		return output.String(), fmt.Errorf("error reading stream: %w", err)
	}

	return output.String(), nil
}

func statusError(resp *http.Response, model string) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == nil {
		err := fmt.Errorf("bad status: %d, body: %s", resp.StatusCode, string(body))
		if resp.StatusCode == http.StatusTooManyRequests {
			return errors.Join(err, ErrRetryable)
		}
		return OpenAIError{
			Err:   err,
			Model: model,
		}
	}
	errResp.Error.HTTPStatusCode = resp.StatusCode
	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.Join(errResp.Error, ErrRetryable)
	}
	return OpenAIError{
		Err:   errResp.Error,
		Model: model,
	}
}

type NewOpenAI func(args GeneratorArgs, apiKey string) *OpenAI

func (Module) NewOpenAI(
	inject dscope.InjectStruct,
	client nets.HTTPClient,
) NewOpenAI {
	return func(args GeneratorArgs, apiKey string) *OpenAI {
		ret := &OpenAI{
			args:   args,
			client: client,
			apiKey: apiKey,
		}
		inject(&ret)
		return ret
	}
}

type ChatCompletionRequest struct {
	Model               string                  `json:"model"`
	Messages            []ChatCompletionMessage `json:"messages"`
	Stream              bool                    `json:"stream"`
	Stop                []string                `json:"stop,omitempty"`
	MaxCompletionTokens int                     `json:"max_completion_tokens,omitempty"`
	Temperature         *float64                `json:"temperature,omitempty"`
}

type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionStreamResponse struct {
	Choices []ChatCompletionStreamChoice `json:"choices"`
}

type ChatCompletionStreamChoice struct {
	Delta        ChatCompletionStreamChoiceDelta `json:"delta"`
	FinishReason string                          `json:"finish_reason"`
}

type ChatCompletionStreamChoiceDelta struct {
	Content string `json:"content,omitempty"`
	Role    string `json:"role,omitempty"`
}
