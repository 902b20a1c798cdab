package learns

import (
	"os"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "System"
	RoleHuman     Role = "Human"
	RoleAssistant Role = "AI"
)

type Message struct {
	Role Role
	Text string
}

func (m Message) String() string {
	return string(m.Role) + ": " + m.Text
}

var roles = []Role{RoleHuman, RoleAssistant, RoleSystem}

// ParseMessages splits text into messages at lines starting with a role prefix like "Human: ".
// Lines before the first prefix are dropped.
func ParseMessages(text string) (ret []Message) {
	var current *Message
	for _, line := range strings.Split(text, "\n") {
		var role Role
		for _, r := range roles {
			if strings.HasPrefix(line, string(r)+": ") {
				role = r
				break
			}
		}
		if role != "" {
			if current != nil {
				ret = append(ret, *current)
			}
			current = &Message{
				Role: role,
				Text: strings.TrimPrefix(line, string(role)+": "),
			}
			continue
		}
		if current != nil {
			current.Text += "\n" + line
		}
	}
	if current != nil {
		ret = append(ret, *current)
	}
	return
}

func LoadMessages(path string) ([]Message, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMessages(string(content)), nil
}

func render(messages []Message) string {
	var b strings.Builder
	for i, message := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(message.String())
	}
	b.WriteString("\n\n")
	b.WriteString(string(RoleAssistant))
	b.WriteString(":")
	return b.String()
}
