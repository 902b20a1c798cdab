package learns

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/tairepl/llms"
	"github.com/reusee/tairepl/logs"
)

const (
	chatSystemPrompt = "You are a helpful assistant that improves python console transcripts used to control an assistant, " +
		"given the requests or corrections provided by a user."
	problemQuestion     = "What is the problem in this interaction? Answer with a single sentence."
	improvementQuestion = "How can the assistant do better next time? Answer with a single explanation sentence, no code."
	rewriteQuestion     = "Provide an improved version of the interaction transcript. Your output should be a " +
		"copy of the above interaction (including the python shell syntax) with only slight " +
		"modifications to adjust the behavior appropriately. Do not include another learn_from_interaction " +
		"call. Remember to fix the identified problem."
)

var ErrBadRewrite = errors.New("bad rewrite")

// Chat asks a model to find the problem in an interaction and rewrite the transcript.
type Chat struct {
	Generator llms.Generator
	FewShot   []Message
	Logger    logs.Logger
}

var _ Learner = new(Chat)

func (c *Chat) Learn(ctx context.Context, interaction string, declarations string) (string, bool, error) {
	messages := slices.Concat(
		[]Message{
			{Role: RoleSystem, Text: chatSystemPrompt},
		},
		c.FewShot,
		[]Message{
			{Role: RoleHuman, Text: "These are the available APIs:\n\n" + declarations},
			{Role: RoleHuman, Text: "I had the following interaction with the assistant:\n\n" + interaction},
		},
	)
	ask := func(question string) (string, error) {
		messages = append(messages, Message{
			Role: RoleHuman,
			Text: question,
		})
		answer, err := c.Generator.Generate(ctx, render(messages), llms.GenerateOptions{
			Stop: []string{"\n" + string(RoleHuman) + ":"},
		})
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		messages = append(messages, Message{
			Role: RoleAssistant,
			Text: answer,
		})
		return answer, nil
	}

	problem, err := ask(problemQuestion)
	if err != nil {
		return "", false, err
	}
	c.log("problem", problem)
	if strings.Contains(strings.ToLower(problem), "no problem") {
		return "", false, nil
	}

	improvement, err := ask(improvementQuestion)
	if err != nil {
		return "", false, err
	}
	c.log("improvement", improvement)

	improved, err := ask(rewriteQuestion)
	if err != nil {
		return "", false, err
	}
	improved, err = stripFences(improved)
	if err != nil {
		return "", false, err
	}

	// without the trailing learn_from_interaction call
	lines := strings.Split(interaction, "\n")
	if slices.Equal(strings.Split(improved, "\n"), lines[:len(lines)-1]) {
		c.log("rewrite identical to interaction")
		return "", false, nil
	}
	return improved, true, nil
}

func (c *Chat) log(msg string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(msg, args...)
}

func stripFences(text string) (string, error) {
	if !strings.Contains(text, "```") {
		return text, nil
	}
	if n := strings.Count(text, "```"); n != 2 {
		return "", fmt.Errorf("%w: %d code fences", ErrBadRewrite, n)
	}
	text = text[strings.Index(text, "```")+3 : strings.LastIndex(text, "```")]
	text = strings.TrimPrefix(text, "python")
	return strings.TrimSpace(text), nil
}
