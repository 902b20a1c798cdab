package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/reusee/tairepl/logs"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Executor runs code fragments against a scope of bindings.
// It is not safe for concurrent use; nested calls from capabilities on the same goroutine are counted toward MaxDepth.
type Executor struct {
	MaxDepth int
	// zero means unbounded
	MaxSteps uint64
	// name of the builtin that yields its keyword arguments, disabled if empty
	ResultFunction string
	Print          func(thread *starlark.Thread, msg string)
	Logger         logs.Logger

	depth int
}

type Result struct {
	// values of top-level expressions, in order
	Values []starlark.Value
	// bindings that are new or changed
	Changed starlark.StringDict
}

func (e *Executor) Depth() int {
	return e.depth
}

// Execute runs code with globals as the scope. globals is never mutated.
func (e *Executor) Execute(ctx context.Context, code string, globals starlark.StringDict) (*Result, error) {
	e.depth++
	defer func() {
		e.depth--
	}()
	if e.MaxDepth > 0 && e.depth > e.MaxDepth {
		return nil, &RecursionLimitError{
			Fragment: code,
			Depth:    e.depth,
		}
	}

	if strings.Contains(code, "import") {
		return nil, fault(ErrImportAttempt, "imports are not allowed")
	}
	if strings.Contains(code, "__") {
		return nil, fault(ErrForbiddenOperation, "dunder names are not allowed")
	}

	scope, injected, err := e.buildScope(globals)
	if err != nil {
		return nil, err
	}

	thread := &starlark.Thread{
		Name:  fmt.Sprintf("sandbox-%d", e.depth),
		Print: e.print,
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			return nil, fault(ErrImportAttempt, "cannot load %s: imports are not allowed", module)
		},
	}
	thread.SetLocal(contextLocalKey, ctx)
	if e.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(e.MaxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	if e.Logger != nil {
		e.Logger.DebugContext(ctx, "execute",
			"depth", e.depth,
			"code", code,
		)
	}

	var values []starlark.Value
	if expr, err := fileOptions.ParseExpr("<fragment>", code, 0); err == nil {
		// expression mode
		v, err := starlark.EvalExprOptions(fileOptions, thread, expr, scope)
		if err != nil {
			return nil, e.fail(ctx, code, err)
		}
		values = append(values, v)

	} else {
		file, err := fileOptions.Parse("<fragment>", code, 0)
		if err != nil {
			return nil, classify(err)
		}
		for _, stmt := range file.Stmts {
			if _, ok := stmt.(*syntax.LoadStmt); ok {
				return nil, fault(ErrImportAttempt, "load statements are not allowed")
			}
		}
		for _, stmt := range file.Stmts {
			if exprStmt, ok := stmt.(*syntax.ExprStmt); ok {
				v, err := starlark.EvalExprOptions(fileOptions, thread, exprStmt.X, scope)
				if err != nil {
					return nil, e.fail(ctx, code, err)
				}
				values = append(values, v)
				continue
			}
			chunk := &syntax.File{
				Path:    file.Path,
				Stmts:   []syntax.Stmt{stmt},
				Options: fileOptions,
			}
			if err := starlark.ExecREPLChunk(chunk, thread, scope); err != nil {
				return nil, e.fail(ctx, code, err)
			}
		}
	}

	changed, err := diff(globals, scope, injected)
	if err != nil {
		return nil, err
	}

	return &Result{
		Values:  values,
		Changed: changed,
	}, nil
}

func (e *Executor) buildScope(globals starlark.StringDict) (
	scope starlark.StringDict,
	injected map[string]starlark.Value,
	err error,
) {
	scope = make(starlark.StringDict, len(globals)+len(neutered)+2)
	for name, v := range globals {
		if IsDiffable(v) {
			v, err = Copy(v)
			if err != nil {
				return nil, nil, err
			}
		}
		scope[name] = v
	}

	injected = make(map[string]starlark.Value)
	inject := func(name string, v starlark.Value) {
		scope[name] = v
		injected[name] = v
	}
	for _, name := range neutered {
		inject(name, noop(name))
	}
	if _, ok := scope["array"]; !ok {
		inject("array", arrayBuiltin)
	}
	if e.ResultFunction != "" {
		inject(e.ResultFunction, NewResultFunction(e.ResultFunction))
	}

	return
}

// Predeclared reports whether name resolves without any binding from the caller.
func (e *Executor) Predeclared(name string) bool {
	if _, ok := starlark.Universe[name]; ok {
		return true
	}
	if slices.Contains(neutered, name) {
		return true
	}
	return name == "array" ||
		(e.ResultFunction != "" && name == e.ResultFunction)
}

func diff(before, after starlark.StringDict, injected map[string]starlark.Value) (starlark.StringDict, error) {
	changed := make(starlark.StringDict)
	for name, v := range after {
		if inj, ok := injected[name]; ok && identical(inj, v) {
			continue
		}
		orig, ok := before[name]
		if !ok {
			changed[name] = v
			continue
		}
		if IsDiffable(orig) {
			if !IsDiffable(v) {
				changed[name] = v
				continue
			}
			eq, err := Equal(orig, v)
			if err != nil {
				return nil, &Fault{
					Kind: ErrUnsupportedValueType,
					Err:  err,
				}
			}
			if !eq {
				changed[name] = v
			}
			continue
		}
		// functions and other references
		if !identical(orig, v) {
			changed[name] = v
		}
	}
	return changed, nil
}

func (e *Executor) fail(ctx context.Context, code string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) && strings.Contains(evalErr.Msg, "cancelled") {
			return ctxErr
		}
	}
	err = classify(err)
	var limit *RecursionLimitError
	if errors.As(err, &limit) {
		limit.Trace = append(limit.Trace, code)
		return limit
	}
	return err
}

func (e *Executor) print(thread *starlark.Thread, msg string) {
	if e.Print != nil {
		e.Print(thread, msg)
		return
	}
	if e.Logger != nil {
		e.Logger.Info("print", "msg", msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// Parse parses code with the options used for execution.
func Parse(code string) (*syntax.File, error) {
	file, err := fileOptions.Parse("<fragment>", code, 0)
	if err != nil {
		return nil, classify(err)
	}
	return file, nil
}
