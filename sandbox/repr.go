package sandbox

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
)

// Repr renders a value the way it appears in transcripts: Python-style, strings single-quoted.
func Repr(v starlark.Value) string {
	var b strings.Builder
	writeRepr(&b, v, make(map[starlark.Value]bool))
	return b.String()
}

func writeRepr(b *strings.Builder, v starlark.Value, seen map[starlark.Value]bool) {
	switch v := v.(type) {

	case nil:
		b.WriteString("None")

	case starlark.String:
		b.WriteString(quote(string(v)))

	case starlark.Bytes:
		b.WriteString("b")
		b.WriteString(quote(string(v)))

	case *starlark.List:
		if seen[v] {
			b.WriteString("[...]")
			return
		}
		seen[v] = true
		defer delete(seen, v)
		b.WriteString("[")
		for i := range v.Len() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, v.Index(i), seen)
		}
		b.WriteString("]")

	case starlark.Tuple:
		b.WriteString("(")
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, e, seen)
		}
		if len(v) == 1 {
			b.WriteString(",")
		}
		b.WriteString(")")

	case *starlark.Dict:
		if seen[v] {
			b.WriteString("{...}")
			return
		}
		seen[v] = true
		defer delete(seen, v)
		b.WriteString("{")
		for i, item := range v.Items() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, item[0], seen)
			b.WriteString(": ")
			writeRepr(b, item[1], seen)
		}
		b.WriteString("}")

	case *starlark.Set:
		if v.Len() == 0 {
			b.WriteString("set()")
			return
		}
		b.WriteString("{")
		iter := v.Iterate()
		defer iter.Done()
		var e starlark.Value
		for i := 0; iter.Next(&e); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, e, seen)
		}
		b.WriteString("}")

	default:
		b.WriteString(v.String())

	}
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\x`)
			b.WriteString(strconv.FormatUint(uint64(s[i]), 16))
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case !strconv.IsPrint(r):
			quoted := strconv.QuoteRune(r)
			b.WriteString(quoted[1 : len(quoted)-1])
		default:
			b.WriteRune(r)
		}
		i += size
	}
	b.WriteByte(q)
	return b.String()
}
