package transcripts

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	commentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))
)

// Printer writes highlighted transcripts for verbose output.
type Printer struct {
	Writer io.Writer
}

func (p *Printer) Print(title string, items ...Item) {
	if p == nil || p.Writer == nil {
		return
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	for _, item := range items {
		switch item := item.(type) {
		case Command:
			for i, line := range strings.Split(item.Code, "\n") {
				marker := PromptMarker
				if i > 0 {
					marker = ContinuationMarker
				}
				b.WriteString(markerStyle.Render(marker))
				b.WriteString(" ")
				if strings.HasPrefix(strings.TrimSpace(line), "#") {
					b.WriteString(commentStyle.Render(line))
				} else {
					b.WriteString(codeStyle.Render(line))
				}
				b.WriteString("\n")
			}
		case Result:
			for _, line := range strings.Split(item.Content, "\n") {
				b.WriteString(resultStyle.Render(line))
				b.WriteString("\n")
			}
		case InputPrompt:
			b.WriteString(markerStyle.Render(PromptMarker))
			b.WriteString("\n")
		}
	}
	fmt.Fprint(p.Writer, b.String())
}

// PrintText highlights a rendered transcript.
func (p *Printer) PrintText(title string, text string) {
	if p == nil || p.Writer == nil {
		return
	}
	history := Parse(text)
	p.Print(title, history.Items...)
}
