package sandbox

import (
	"fmt"
	"reflect"

	"go.starlark.net/starlark"
)

// IsDiffable reports whether v belongs to the value family that supports change detection:
// None, bool, numbers, text, list, tuple, set, dict over diffable members, and Array.
func IsDiffable(v starlark.Value) bool {
	switch v := v.(type) {
	case starlark.NoneType, starlark.Bool, starlark.Int, starlark.Float,
		starlark.String, starlark.Bytes, *Array:
		return true
	case *starlark.List:
		for i := range v.Len() {
			if !IsDiffable(v.Index(i)) {
				return false
			}
		}
		return true
	case starlark.Tuple:
		for _, e := range v {
			if !IsDiffable(e) {
				return false
			}
		}
		return true
	case *starlark.Set:
		return allDiffable(v)
	case *starlark.Dict:
		for _, item := range v.Items() {
			if !IsDiffable(item[0]) || !IsDiffable(item[1]) {
				return false
			}
		}
		return true
	}
	return false
}

func allDiffable(v starlark.Iterable) bool {
	iter := v.Iterate()
	defer iter.Done()
	var e starlark.Value
	for iter.Next(&e) {
		if !IsDiffable(e) {
			return false
		}
	}
	return true
}

// Copy deep-copies a diffable value. Immutable values are returned as is.
func Copy(v starlark.Value) (starlark.Value, error) {
	switch v := v.(type) {
	case starlark.NoneType, starlark.Bool, starlark.Int, starlark.Float,
		starlark.String, starlark.Bytes:
		return v, nil
	case *Array:
		return v.Clone(), nil
	case *starlark.List:
		elems := make([]starlark.Value, 0, v.Len())
		for i := range v.Len() {
			e, err := Copy(v.Index(i))
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return starlark.NewList(elems), nil
	case starlark.Tuple:
		ret := make(starlark.Tuple, 0, len(v))
		for _, e := range v {
			c, err := Copy(e)
			if err != nil {
				return nil, err
			}
			ret = append(ret, c)
		}
		return ret, nil
	case *starlark.Set:
		ret := starlark.NewSet(v.Len())
		iter := v.Iterate()
		defer iter.Done()
		var e starlark.Value
		for iter.Next(&e) {
			c, err := Copy(e)
			if err != nil {
				return nil, err
			}
			if err := ret.Insert(c); err != nil {
				return nil, err
			}
		}
		return ret, nil
	case *starlark.Dict:
		ret := starlark.NewDict(v.Len())
		for _, item := range v.Items() {
			k, err := Copy(item[0])
			if err != nil {
				return nil, err
			}
			val, err := Copy(item[1])
			if err != nil {
				return nil, err
			}
			if err := ret.SetKey(k, val); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedValueType, v.Type())
}

// Equal compares two diffable values structurally.
// Values outside the diffable family fail with ErrUnsupportedValueType.
func Equal(a, b starlark.Value) (bool, error) {
	if !IsDiffable(a) {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedValueType, a.Type())
	}
	if !IsDiffable(b) {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedValueType, b.Type())
	}
	return equal(a, b)
}

func equal(a, b starlark.Value) (bool, error) {
	switch a := a.(type) {

	case *Array:
		b, ok := b.(*Array)
		if !ok {
			return false, nil
		}
		return a.equal(b), nil

	case *starlark.List:
		b, ok := b.(*starlark.List)
		if !ok || a.Len() != b.Len() {
			return false, nil
		}
		for i := range a.Len() {
			if ok, err := equal(a.Index(i), b.Index(i)); err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case starlark.Tuple:
		b, ok := b.(starlark.Tuple)
		if !ok || len(a) != len(b) {
			return false, nil
		}
		for i := range a {
			if ok, err := equal(a[i], b[i]); err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case *starlark.Set:
		b, ok := b.(*starlark.Set)
		if !ok || a.Len() != b.Len() {
			return false, nil
		}
		iter := a.Iterate()
		defer iter.Done()
		var e starlark.Value
		for iter.Next(&e) {
			if found, err := b.Has(e); err != nil || !found {
				return false, err
			}
		}
		return true, nil

	case *starlark.Dict:
		b, ok := b.(*starlark.Dict)
		if !ok || a.Len() != b.Len() {
			return false, nil
		}
		for _, item := range a.Items() {
			v, found, err := b.Get(item[0])
			if err != nil || !found {
				return false, err
			}
			if ok, err := equal(item[1], v); err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	}

	switch b.(type) {
	case *Array, *starlark.List, starlark.Tuple, *starlark.Set, *starlark.Dict:
		return false, nil
	}
	// 1 and 1.0 are different bindings
	if a.Type() != b.Type() {
		return false, nil
	}
	return starlark.Equal(a, b)
}

// identical reports reference identity for values outside the diffable family.
func identical(a, b starlark.Value) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}
