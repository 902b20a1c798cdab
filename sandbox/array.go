package sandbox

import (
	"fmt"
	"slices"
	"strings"

	"go.starlark.net/starlark"
)

// Array is a fixed-shape numeric array stored in row-major order.
type Array struct {
	Shape  []int
	Data   []float64
	frozen bool
}

var (
	_ starlark.Value     = new(Array)
	_ starlark.Indexable = new(Array)
	_ starlark.HasAttrs  = new(Array)
)

func NewArray(shape []int, data []float64) (*Array, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("bad shape: %v", shape)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v does not match %d elements", shape, len(data))
	}
	return &Array{
		Shape: slices.Clone(shape),
		Data:  slices.Clone(data),
	}, nil
}

func (a *Array) Clone() *Array {
	return &Array{
		Shape: slices.Clone(a.Shape),
		Data:  slices.Clone(a.Data),
	}
}

func (a *Array) equal(b *Array) bool {
	return slices.Equal(a.Shape, b.Shape) && slices.Equal(a.Data, b.Data)
}

func (a *Array) String() string {
	var b strings.Builder
	b.WriteString("array(")
	a.write(&b, 0, 0)
	b.WriteString(")")
	return b.String()
}

func (a *Array) write(b *strings.Builder, dim int, offset int) {
	if len(a.Shape) == 0 {
		if len(a.Data) > 0 {
			b.WriteString(starlark.Float(a.Data[0]).String())
		}
		return
	}
	b.WriteString("[")
	stride := a.stride(dim)
	for i := range a.Shape[dim] {
		if i > 0 {
			b.WriteString(", ")
		}
		if dim == len(a.Shape)-1 {
			b.WriteString(starlark.Float(a.Data[offset+i]).String())
		} else {
			a.write(b, dim+1, offset+i*stride)
		}
	}
	b.WriteString("]")
}

func (a *Array) stride(dim int) int {
	n := 1
	for _, d := range a.Shape[dim+1:] {
		n *= d
	}
	return n
}

func (a *Array) Type() string {
	return "array"
}

func (a *Array) Freeze() {
	a.frozen = true
}

func (a *Array) Truth() starlark.Bool {
	return len(a.Data) > 0
}

func (a *Array) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: array")
}

func (a *Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

func (a *Array) Index(i int) starlark.Value {
	if len(a.Shape) == 1 {
		return starlark.Float(a.Data[i])
	}
	stride := a.stride(0)
	return &Array{
		Shape: slices.Clone(a.Shape[1:]),
		Data:  slices.Clone(a.Data[i*stride : (i+1)*stride]),
	}
}

func (a *Array) Attr(name string) (starlark.Value, error) {
	switch name {
	case "shape":
		shape := make(starlark.Tuple, 0, len(a.Shape))
		for _, d := range a.Shape {
			shape = append(shape, starlark.MakeInt(d))
		}
		return shape, nil
	case "size":
		return starlark.MakeInt(len(a.Data)), nil
	case "tolist":
		return starlark.NewBuiltin("tolist", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return a.toList(0, 0), nil
		}), nil
	}
	return nil, nil
}

func (a *Array) AttrNames() []string {
	return []string{"shape", "size", "tolist"}
}

func (a *Array) toList(dim int, offset int) starlark.Value {
	if len(a.Shape) == 0 {
		return starlark.NewList(nil)
	}
	elems := make([]starlark.Value, 0, a.Shape[dim])
	stride := a.stride(dim)
	for i := range a.Shape[dim] {
		if dim == len(a.Shape)-1 {
			elems = append(elems, starlark.Float(a.Data[offset+i]))
		} else {
			elems = append(elems, a.toList(dim+1, offset+i*stride))
		}
	}
	return starlark.NewList(elems)
}

// ArrayFromValue builds an Array from nested, rectangular sequences of numbers.
func ArrayFromValue(v starlark.Value) (*Array, error) {
	var shape []int
	var data []float64
	var walk func(v starlark.Value, dim int) error
	walk = func(v starlark.Value, dim int) error {
		switch v := v.(type) {
		case starlark.Int, starlark.Float:
			if dim != len(shape) {
				return fmt.Errorf("array: ragged nesting")
			}
			f, _ := starlark.AsFloat(v)
			data = append(data, f)
			return nil
		case *Array:
			return walk(v.toList(0, 0), dim)
		case starlark.String, starlark.Bytes:
			return fmt.Errorf("array: want number or sequence, got %s", v.Type())
		case starlark.Indexable:
			n := v.Len()
			if dim == len(shape) {
				if len(data) > 0 {
					return fmt.Errorf("array: ragged nesting")
				}
				shape = append(shape, n)
			} else if dim > len(shape) || shape[dim] != n {
				return fmt.Errorf("array: ragged nesting")
			}
			for i := range n {
				if err := walk(v.Index(i), dim+1); err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("array: want number or sequence, got %s", v.Type())
	}
	if err := walk(v, 0); err != nil {
		return nil, err
	}
	return NewArray(shape, data)
}
