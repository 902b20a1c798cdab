package prompts

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Query is a trigger query as it appears in a transcript.
type Query struct {
	Type   string
	Fields []Field
}

type Field struct {
	Key   string
	Value string
}

var ErrUnknownQueryType = errors.New("unknown query type")

var ErrBadQuery = errors.New("bad query")

// payload field per query type
var payloadKeys = map[string]string{
	"dialog":             "text",
	"action_recognition": "activity",
	"perform_search":     "object",
	"task_end":           "message",
	"action_end":         "result",
	"task":               "instruction",
	"query_to_human":     "query",
}

func Dialog(text string) Query {
	return Query{
		Type: "dialog",
		Fields: []Field{
			{Key: "text", Value: text},
		},
	}
}

func (q Query) Get(key string) (string, bool) {
	for _, field := range q.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Payload returns the text used for similarity search.
func (q Query) Payload() (string, error) {
	key, ok := payloadKeys[q.Type]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownQueryType, q.Type)
	}
	value, ok := q.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s query without %s", ErrBadQuery, q.Type, key)
	}
	return value, nil
}

func (q Query) String() string {
	var b strings.Builder
	b.WriteString("{'type': ")
	b.WriteString(sandbox.Repr(starlark.String(q.Type)))
	for _, field := range q.Fields {
		b.WriteString(", ")
		b.WriteString(sandbox.Repr(starlark.String(field.Key)))
		b.WriteString(": ")
		b.WriteString(sandbox.Repr(starlark.String(field.Value)))
	}
	b.WriteString("}")
	return b.String()
}

var looseDialogPattern = regexp.MustCompile(`^\{\s*'type'\s*:\s*'dialog'\s*,\s*'text'\s*:\s*'(.*)'\s*}$`)

// ParseQuery parses a result line. Lines not starting with { are dialog text, optionally quoted.
func ParseQuery(line string) (Query, error) {
	if !strings.HasPrefix(line, "{") {
		if len(line) >= 2 && (line[0] == '\'' || line[0] == '"') {
			line = line[1 : len(line)-1]
		}
		return Dialog(line), nil
	}
	query, err := parseDictLiteral(line)
	if err == nil {
		return query, nil
	}
	// unescaped single quotes inside dialog text
	if m := looseDialogPattern.FindStringSubmatch(line); m != nil {
		return Dialog(m[1]), nil
	}
	return Query{}, err
}

func parseDictLiteral(src string) (Query, error) {
	expr, err := new(syntax.FileOptions).ParseExpr("query", src, 0)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	dict, ok := expr.(*syntax.DictExpr)
	if !ok {
		return Query{}, fmt.Errorf("%w: not a dict: %s", ErrBadQuery, src)
	}
	var query Query
	for _, item := range dict.List {
		entry := item.(*syntax.DictEntry)
		key, ok := entry.Key.(*syntax.Literal)
		if !ok || key.Token != syntax.STRING {
			return Query{}, fmt.Errorf("%w: non-string key in %s", ErrBadQuery, src)
		}
		value, ok := literalText(entry.Value)
		if !ok {
			return Query{}, fmt.Errorf("%w: non-literal value in %s", ErrBadQuery, src)
		}
		name := key.Value.(string)
		if name == "type" {
			query.Type = value
			continue
		}
		query.Fields = append(query.Fields, Field{
			Key:   name,
			Value: value,
		})
	}
	if query.Type == "" {
		return Query{}, fmt.Errorf("%w: no type in %s", ErrBadQuery, src)
	}
	return query, nil
}

func literalText(expr syntax.Expr) (string, bool) {
	switch expr := expr.(type) {
	case *syntax.Literal:
		if s, ok := expr.Value.(string); ok {
			return s, true
		}
		return expr.Raw, true
	case *syntax.Ident:
		switch expr.Name {
		case "None", "True", "False":
			return expr.Name, true
		}
	}
	return "", false
}
