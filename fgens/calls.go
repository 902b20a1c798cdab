package fgens

import (
	"strings"
	"unicode/utf8"

	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/syntax"
)

// Call is a call of a plain name found in code.
type Call struct {
	Name string
	// the call expression, or the whole assignment if its result is assigned
	Signature string
}

// FindCalls returns calls of plain names in order of first appearance.
func FindCalls(code string) ([]Call, error) {
	file, err := sandbox.Parse(code)
	if err != nil {
		return nil, err
	}
	return findCalls(code, file.Stmts, nil), nil
}

func findCalls(code string, stmts []syntax.Stmt, bound map[string]bool) (ret []Call) {
	index := make(map[string]int)
	assigned := make(map[string]string)
	for _, stmt := range stmts {
		syntax.Walk(stmt, func(node syntax.Node) bool {
			switch node := node.(type) {
			case *syntax.CallExpr:
				ident, ok := node.Fn.(*syntax.Ident)
				if !ok || bound[ident.Name] {
					break
				}
				if _, ok := index[ident.Name]; ok {
					break
				}
				index[ident.Name] = len(ret)
				ret = append(ret, Call{
					Name:      ident.Name,
					Signature: source(code, node),
				})
			case *syntax.AssignStmt:
				if node.Op != syntax.EQ {
					break
				}
				call, ok := node.RHS.(*syntax.CallExpr)
				if !ok {
					break
				}
				if ident, ok := call.Fn.(*syntax.Ident); ok {
					assigned[ident.Name] = source(code, node)
				}
			}
			return true
		})
	}
	for name, signature := range assigned {
		if i, ok := index[name]; ok {
			ret[i].Signature = signature
		}
	}
	return
}

// source returns the text spanned by node.
func source(code string, node syntax.Node) string {
	start, end := node.Span()
	return code[offset(code, start):offset(code, end)]
}

func offset(code string, pos syntax.Position) int {
	i := 0
	for line := int32(1); line < pos.Line; line++ {
		next := strings.IndexByte(code[i:], '\n')
		if next == -1 {
			return len(code)
		}
		i += next + 1
	}
	for col := int32(1); col < pos.Col && i < len(code); col++ {
		_, size := utf8.DecodeRuneInString(code[i:])
		i += size
	}
	return i
}

// bodyCalls returns calls in the body of the first function definition in code, excluding its parameters and local functions.
func bodyCalls(code string) ([]Call, error) {
	file, err := sandbox.Parse(code)
	if err != nil {
		return nil, err
	}
	for _, stmt := range file.Stmts {
		def, ok := stmt.(*syntax.DefStmt)
		if !ok {
			continue
		}
		bound := map[string]bool{
			def.Name.Name: true,
		}
		for _, param := range def.Params {
			switch param := param.(type) {
			case *syntax.Ident:
				bound[param.Name] = true
			case *syntax.BinaryExpr:
				if ident, ok := param.X.(*syntax.Ident); ok {
					bound[ident.Name] = true
				}
			case *syntax.UnaryExpr:
				if ident, ok := param.X.(*syntax.Ident); ok {
					bound[ident.Name] = true
				}
			}
		}
		for _, stmt := range def.Body {
			syntax.Walk(stmt, func(node syntax.Node) bool {
				if def, ok := node.(*syntax.DefStmt); ok {
					bound[def.Name.Name] = true
				}
				return true
			})
		}
		return findCalls(code, def.Body, bound), nil
	}
	return nil, nil
}
