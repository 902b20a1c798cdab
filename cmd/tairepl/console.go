package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/reusee/tairepl/namespaces"
	"github.com/reusee/tairepl/sandbox"
	"go.starlark.net/starlark"
)

// console talks to the user on a terminal
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *console) capabilities() *namespaces.CapabilitySet {
	return namespaces.NewCapabilitySet().
		Define("say", starlark.NewBuiltin("say", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var text string
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &text); err != nil {
				return nil, err
			}
			fmt.Fprintf(c.out, "AI: %s\n", text)
			return starlark.None, nil
		}), namespaces.Meta{
			Signature: "text",
			Comment:   "say something to the user",
		}).
		Define("ask", starlark.NewBuiltin("ask", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var question string
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &question); err != nil {
				return nil, err
			}
			fmt.Fprintf(c.out, "AI: %s\n> ", question)
			answer, err := c.readLine()
			if err != nil {
				return nil, err
			}
			return starlark.String(answer), nil
		}), namespaces.Meta{
			Signature: "question",
			Returns:   "str",
			Comment:   "ask the user and return the answer",
		}).
		Define("wait_for_trigger", starlark.NewBuiltin("wait_for_trigger", func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
			return nil, &sandbox.Yield{}
		}), namespaces.Meta{
			Comment: "wait for the next request of the user",
		})
}
