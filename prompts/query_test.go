package prompts

import (
	"errors"
	"testing"
)

func TestParseQuery(t *testing.T) {
	for _, c := range []struct {
		line     string
		expected string
	}{
		{`{'type': 'dialog', 'text': 'hello'}`, `{'type': 'dialog', 'text': 'hello'}`},
		{`my name is Anna.`, `{'type': 'dialog', 'text': 'my name is Anna.'}`},
		{`'my name is Anna.'`, `{'type': 'dialog', 'text': 'my name is Anna.'}`},
		{`"it's me"`, `{'type': 'dialog', 'text': "it's me"}`},
		{`{'type': 'dialog', 'text': 'it's me'}`, `{'type': 'dialog', 'text': "it's me"}`},
		{`{'type': 'action_recognition', 'activity': 'waving', 'person': 'Anna'}`, `{'type': 'action_recognition', 'activity': 'waving', 'person': 'Anna'}`},
		{`{'type': 'task_end', 'message': 'done', 'success': True, 'steps': 3}`, `{'type': 'task_end', 'message': 'done', 'success': 'True', 'steps': '3'}`},
	} {
		query, err := ParseQuery(c.line)
		if err != nil {
			t.Fatalf("%s: %v", c.line, err)
		}
		if got := query.String(); got != c.expected {
			t.Fatalf("got %s", got)
		}
	}
}

func TestParseBadQuery(t *testing.T) {
	for _, line := range []string{
		`{'text': 'no type'}`,
		`{'type': f()}`,
		`{'type': 'dialog'`,
	} {
		if _, err := ParseQuery(line); !errors.Is(err, ErrBadQuery) {
			t.Fatalf("%s: got %v", line, err)
		}
	}
}

func TestPayload(t *testing.T) {
	for typ, key := range payloadKeys {
		payload, err := Query{
			Type: typ,
			Fields: []Field{
				{Key: "other", Value: "x"},
				{Key: key, Value: "payload"},
			},
		}.Payload()
		if err != nil {
			t.Fatal(err)
		}
		if payload != "payload" {
			t.Fatalf("got %v", payload)
		}
	}
	if _, err := (Query{Type: "foo"}).Payload(); !errors.Is(err, ErrUnknownQueryType) {
		t.Fatalf("got %v", err)
	}
	if _, err := (Query{Type: "dialog"}).Payload(); !errors.Is(err, ErrBadQuery) {
		t.Fatalf("got %v", err)
	}
}

func TestExtractQueries(t *testing.T) {
	queries, err := ExtractQueries(`>>> wait_for_trigger()
{'type': 'dialog', 'text': 'hello. how are you?'}
>>> detect_persons()
['#unknown']
>>> ask("What's your name?")
'my name is Anna.'
>>> if x:
...     wait_for_trigger()
... else:
...     ask('again?')
>>> wait_for_trigger()
{'type': 'action_recognition', 'activity': 'waving', 'person': 'Anna'}
>>> wait_for_trigger()`)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 3 {
		t.Fatalf("got %v", queries)
	}
	if queries[0].String() != `{'type': 'dialog', 'text': 'hello. how are you?'}` {
		t.Fatalf("got %v", queries[0])
	}
	if text, _ := queries[1].Get("text"); text != "my name is Anna." {
		t.Fatalf("got %v", queries[1])
	}
	if queries[2].Type != "action_recognition" {
		t.Fatalf("got %v", queries[2])
	}
}
