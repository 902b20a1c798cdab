package vars

import "testing"

func TestFirstNonZero(t *testing.T) {
	if v := FirstNonZero("", "", "foo", "bar"); v != "foo" {
		t.Fatalf("got %q", v)
	}
	if v := FirstNonZero(0, 0); v != 0 {
		t.Fatalf("got %v", v)
	}
}

func TestDerefOr(t *testing.T) {
	if v := DerefOr(nil, 3); v != 3 {
		t.Fatalf("got %v", v)
	}
	if v := DerefOr(PtrTo(5), 3); v != 5 {
		t.Fatalf("got %v", v)
	}
}

func TestStrToBool(t *testing.T) {
	for _, s := range []string{"true", "Y", " on ", "1"} {
		if !StrToBool(s) {
			t.Fatalf("%q should be true", s)
		}
	}
	for _, s := range []string{"false", "n", "", "maybe"} {
		if StrToBool(s) {
			t.Fatalf("%q should be false", s)
		}
	}
}
