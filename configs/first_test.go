package configs

import (
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)

	str := First[string](loader, "str")
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

}

func TestFirstNotFound(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)
	list := First[[]int](loader, "list")
	if len(list) != 3 {
		t.Fatalf("got %v", list)
	}
	if n := First[int](loader, "not_defined"); n != 0 {
		t.Fatalf("got %v", n)
	}
}

func TestNoFiles(t *testing.T) {
	loader := NewLoader(nil, testSchema)
	if str := First[string](loader, "str"); str != "" {
		t.Fatalf("got %q", str)
	}
}
