package transcripts

import (
	"strings"
)

// Item is one entry of an execution history.
type Item interface {
	String() string
	item()
}

// Command is a statement, rendered with prompt markers.
type Command struct {
	Code string
}

func (c Command) String() string {
	lines := strings.Split(c.Code, "\n")
	var b strings.Builder
	b.WriteString(PromptMarker)
	b.WriteString(" ")
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		b.WriteString("\n")
		b.WriteString(ContinuationMarker)
		b.WriteString(" ")
		b.WriteString(line)
	}
	return b.String()
}

func (Command) item() {}

// Result is execution output, rendered bare.
type Result struct {
	Content string
}

func (r Result) String() string {
	return r.Content
}

func (Result) item() {}

// InputPrompt marks a point where the next statement is expected.
type InputPrompt struct{}

func (InputPrompt) String() string {
	return PromptMarker
}

func (InputPrompt) item() {}

const (
	PromptMarker       = ">>>"
	ContinuationMarker = "..."
)

type History struct {
	Items []Item
}

// Append adds items. An InputPrompt directly following another InputPrompt is dropped.
func (h *History) Append(items ...Item) {
	for _, item := range items {
		if _, ok := item.(InputPrompt); ok {
			if _, ok := h.Last().(InputPrompt); ok {
				continue
			}
		}
		h.Items = append(h.Items, item)
	}
}

func (h *History) Last() Item {
	if len(h.Items) == 0 {
		return nil
	}
	return h.Items[len(h.Items)-1]
}

func (h *History) Pop() Item {
	last := h.Last()
	if last != nil {
		h.Items = h.Items[:len(h.Items)-1]
	}
	return last
}

func (h *History) Len() int {
	return len(h.Items)
}

func (h *History) Reset() {
	h.Items = nil
}

func (h *History) String() string {
	var b strings.Builder
	for i, item := range h.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(item.String())
	}
	return b.String()
}

// FromEnd returns the item n positions before the last one, nil if out of range.
func (h *History) FromEnd(n int) Item {
	i := len(h.Items) - 1 - n
	if i < 0 || i >= len(h.Items) {
		return nil
	}
	return h.Items[i]
}
