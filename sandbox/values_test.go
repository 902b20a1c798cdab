package sandbox

import (
	"errors"
	"testing"

	"go.starlark.net/starlark"
)

func mustEval(t *testing.T, expr string) starlark.Value {
	t.Helper()
	v, err := starlark.EvalOptions(fileOptions, new(starlark.Thread), "<expr>", expr, starlark.StringDict{
		"array": arrayBuiltin,
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestEqual(t *testing.T) {
	for _, c := range []struct {
		a, b  string
		equal bool
	}{
		{"1", "1", true},
		{"1", "1.0", false},
		{"1.0", "1.0", true},
		{"[1]", "[1.0]", false},
		{"1", "2", false},
		{"'a'", "'a'", true},
		{"None", "None", true},
		{"[1, [2, 3]]", "[1, [2, 3]]", true},
		{"[1, [2, 3]]", "[1, [2, 4]]", false},
		{"[1]", "(1,)", false},
		{"{'a': [1]}", "{'a': [1]}", true},
		{"{'a': [1]}", "{'a': [2]}", false},
		{"{'a': 1}", "{'b': 1}", false},
		{"set([1, 2])", "set([2, 1])", true},
		{"set([1, 2])", "set([1])", false},
		{"array([1, 2])", "array([1, 2])", true},
		{"array([1, 2])", "array([[1, 2]])", false},
		{"array([1, 2])", "[1, 2]", false},
	} {
		eq, err := Equal(mustEval(t, c.a), mustEval(t, c.b))
		if err != nil {
			t.Fatalf("%s %s: %v", c.a, c.b, err)
		}
		if eq != c.equal {
			t.Fatalf("%s %s: got %v", c.a, c.b, eq)
		}
	}
}

func TestEqualUnsupported(t *testing.T) {
	fn := starlark.NewBuiltin("f", nil)
	_, err := Equal(fn, fn)
	if !errors.Is(err, ErrUnsupportedValueType) {
		t.Fatalf("got %v", err)
	}
	_, err = Equal(starlark.NewList([]starlark.Value{fn}), starlark.NewList(nil))
	if !errors.Is(err, ErrUnsupportedValueType) {
		t.Fatalf("got %v", err)
	}
}

func TestCopy(t *testing.T) {
	v := mustEval(t, "{'a': [1, 2], 'b': set([1])}")
	c, err := Copy(v)
	if err != nil {
		t.Fatal(err)
	}
	inner, _, _ := c.(*starlark.Dict).Get(starlark.String("a"))
	if err := inner.(*starlark.List).Append(starlark.MakeInt(3)); err != nil {
		t.Fatal(err)
	}
	if Repr(v) != "{'a': [1, 2], 'b': {1}}" {
		t.Fatalf("got %v", Repr(v))
	}
	if Repr(c) != "{'a': [1, 2, 3], 'b': {1}}" {
		t.Fatalf("got %v", Repr(c))
	}

	if _, err := Copy(starlark.NewBuiltin("f", nil)); !errors.Is(err, ErrUnsupportedValueType) {
		t.Fatalf("got %v", err)
	}
}

func TestIsDiffable(t *testing.T) {
	if !IsDiffable(mustEval(t, "[1, (2, 'a'), {'b': None}]")) {
		t.Fatal("should be diffable")
	}
	if IsDiffable(starlark.NewList([]starlark.Value{starlark.NewBuiltin("f", nil)})) {
		t.Fatal("should not be diffable")
	}
}

func TestRepr(t *testing.T) {
	for expr, expected := range map[string]string{
		"'hi'":                    `'hi'`,
		`"it's"`:                  `"it's"`,
		`'a\'b"c'`:                `'a\'b"c'`,
		`'a\nb'`:                  `'a\nb'`,
		"None":                    `None`,
		"True":                    `True`,
		"1.5":                     `1.5`,
		"[1, 'a']":                `[1, 'a']`,
		"(1,)":                    `(1,)`,
		"()":                      `()`,
		"{'type': 'dialog'}":      `{'type': 'dialog'}`,
		"set()":                   `set()`,
		"[('bottle', 'counter')]": `[('bottle', 'counter')]`,
		"array([[1, 2], [3, 4]])": `array([[1.0, 2.0], [3.0, 4.0]])`,
	} {
		if got := Repr(mustEval(t, expr)); got != expected {
			t.Fatalf("%s: got %s", expr, got)
		}
	}
}

func TestArrayFromValue(t *testing.T) {
	a, err := ArrayFromValue(mustEval(t, "[[1, 2, 3], [4, 5, 6]]"))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Shape) != 2 || a.Shape[0] != 2 || a.Shape[1] != 3 {
		t.Fatalf("got %v", a.Shape)
	}
	if a.Len() != 2 {
		t.Fatalf("got %v", a.Len())
	}
	if Repr(a.Index(1)) != "array([4.0, 5.0, 6.0])" {
		t.Fatalf("got %v", Repr(a.Index(1)))
	}
	for _, expr := range []string{
		"[[1, 2], [3]]",
		"[1, [2]]",
		"['a']",
		"'abc'",
	} {
		if _, err := ArrayFromValue(mustEval(t, expr)); err == nil {
			t.Fatalf("%s: should error", expr)
		}
	}
	if _, err := NewArray([]int{2, 2}, []float64{1}); err == nil {
		t.Fatal("should error")
	}
}

func TestToValue(t *testing.T) {
	type testStruct struct {
		Exported   string
		unexported int
	}
	for _, c := range []struct {
		input    any
		expected string
	}{
		{nil, "None"},
		{true, "True"},
		{"hello", "'hello'"},
		{42, "42"},
		{int32(42), "42"},
		{uint8(7), "7"},
		{3.5, "3.5"},
		{[]any{1, "a"}, "[1, 'a']"},
		{[]string{"a", "b"}, "['a', 'b']"},
		{map[string]any{"a": 1}, "{'a': 1}"},
		{testStruct{Exported: "x", unexported: 1}, "{'Exported': 'x'}"},
		{&testStruct{Exported: "y"}, "{'Exported': 'y'}"},
		{(*testStruct)(nil), "None"},
		{starlark.String("v"), "'v'"},
	} {
		v, err := ToValue(c.input)
		if err != nil {
			t.Fatal(err)
		}
		if got := Repr(v); got != c.expected {
			t.Fatalf("%#v: got %s", c.input, got)
		}
	}

	if _, err := ToValue(make(chan bool)); !errors.Is(err, ErrUnsupportedValueType) {
		t.Fatalf("got %v", err)
	}
}
