package funcs

import (
	"fmt"
	"strings"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareCollections() {
	r.declare(Definition{Name: "length", Params: []ParamType{TypeAny}, Impl: length})
	r.declare(Definition{Name: "compact", Params: []ParamType{TypeArray}, Impl: compact})
	r.declare(Definition{Name: "unique", Params: []ParamType{TypeArray}, Impl: uniqueElems})
	r.declare(Definition{Name: "contains", Params: []ParamType{TypeAny, TypeAny}, Impl: contains})
	r.declare(Definition{Name: "range", Params: []ParamType{TypeNumber, TypeNumber}, Impl: rangeFn})
	r.declare(Definition{Name: "merge", VarParam: typed(TypeObject), Impl: mergeFn})
	r.declare(Definition{Name: "flatten", Params: []ParamType{TypeArray}, Impl: flatten})
	r.declare(Definition{Name: "reverse", Params: []ParamType{TypeAny}, Impl: reverse})
	r.declare(Definition{Name: "sum", Params: []ParamType{TypeArray}, Impl: sum})
	r.declare(Definition{Name: "max", Params: []ParamType{TypeArray}, Impl: maxFn})
	r.declare(Definition{Name: "min", Params: []ParamType{TypeArray}, Impl: minFn})
	r.declare(Definition{Name: "keys", Namespace: []string{"map"}, Params: []ParamType{TypeObject}, Impl: objectKeys})
	r.declare(Definition{Name: "values", Namespace: []string{"map"}, Params: []ParamType{TypeObject}, Impl: objectValues})
}

func length(args []value.Value) (value.Value, error) {
	switch args[0].Kind() {
	case value.KindArray:
		return value.Int(int64(len(args[0].AsArray()))), nil
	case value.KindString:
		return value.Int(int64(len(args[0].AsString()))), nil
	case value.KindObject:
		return value.Int(int64(args[0].AsObject().Len())), nil
	default:
		return value.Value{}, fmt.Errorf("requires an array, string or object argument")
	}
}

// compact drops null entries, everything else passes through unchanged.
func compact(args []value.Value) (value.Value, error) {
	kept := []value.Value{}
	for _, e := range args[0].AsArray() {
		if !e.IsNull() {
			kept = append(kept, e)
		}
	}
	return value.Array(kept...), nil
}

func uniqueElems(args []value.Value) (value.Value, error) {
	seen := make(map[string]struct{})
	out := []value.Value{}
	for _, e := range args[0].AsArray() {
		key := value.CanonicalKey(e)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return value.Array(out...), nil
}

func contains(args []value.Value) (value.Value, error) {
	switch args[0].Kind() {
	case value.KindArray:
		for _, e := range args[0].AsArray() {
			if value.Equal(e, args[1]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindString:
		if args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("second argument must be a string when searching a string")
		}
		return value.Bool(strings.Contains(args[0].AsString(), args[1].AsString())), nil
	default:
		return value.Value{}, fmt.Errorf("requires an array or string as first argument")
	}
}

// rangeFn yields the half-open interval [start, end).
func rangeFn(args []value.Value) (value.Value, error) {
	start := args[0].AsNumber().Int64()
	end := args[1].AsNumber().Int64()
	out := []value.Value{}
	for n := start; n < end; n++ {
		out = append(out, value.Int(n))
	}
	return value.Array(out...), nil
}

// mergeFn shallow-merges its object arguments; later keys overwrite
// earlier ones.
func mergeFn(args []value.Value) (value.Value, error) {
	out := value.NewObject()
	for _, arg := range args {
		out.Extend(arg.AsObject())
	}
	return value.ObjectVal(out), nil
}

// flatten recursively flattens nested arrays; non-array leaves pass
// through unchanged.
func flatten(args []value.Value) (value.Value, error) {
	var out []value.Value
	var walk func(elems []value.Value)
	walk = func(elems []value.Value) {
		for _, e := range elems {
			if e.Kind() == value.KindArray {
				walk(e.AsArray())
			} else {
				out = append(out, e)
			}
		}
	}
	walk(args[0].AsArray())
	if out == nil {
		out = []value.Value{}
	}
	return value.Array(out...), nil
}

func reverse(args []value.Value) (value.Value, error) {
	switch args[0].Kind() {
	case value.KindArray:
		src := args[0].AsArray()
		out := make([]value.Value, len(src))
		for i, e := range src {
			out[len(src)-1-i] = e
		}
		return value.Array(out...), nil
	case value.KindString:
		runes := []rune(args[0].AsString())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.String(string(runes)), nil
	default:
		return value.Value{}, fmt.Errorf("requires an array or string argument")
	}
}

// sum adds the numeric elements, skipping everything else. Integer
// fidelity is kept when every summed element is an integer.
func sum(args []value.Value) (value.Value, error) {
	var total float64
	var totalInt int64
	allInt := true
	for _, e := range args[0].AsArray() {
		if e.Kind() != value.KindNumber {
			continue
		}
		n := e.AsNumber()
		total += n.Float64()
		if n.IsInt() {
			totalInt += n.Int64()
		} else {
			allInt = false
		}
	}
	if allInt {
		return value.Int(totalInt), nil
	}
	return value.Float(total), nil
}

func maxFn(args []value.Value) (value.Value, error) {
	return extreme(args[0].AsArray(), func(a, b float64) bool { return a > b })
}

func minFn(args []value.Value) (value.Value, error) {
	return extreme(args[0].AsArray(), func(a, b float64) bool { return a < b })
}

func extreme(elems []value.Value, better func(a, b float64) bool) (value.Value, error) {
	var best value.Value
	found := false
	for _, e := range elems {
		if e.Kind() != value.KindNumber {
			continue
		}
		if !found || better(e.AsNumber().Float64(), best.AsNumber().Float64()) {
			best = e
			found = true
		}
	}
	if !found {
		return value.Value{}, fmt.Errorf("requires a non-empty array of numbers")
	}
	return best, nil
}

func objectKeys(args []value.Value) (value.Value, error) {
	obj := args[0].AsObject()
	out := make([]value.Value, 0, obj.Len())
	for _, k := range obj.Keys() {
		out = append(out, value.String(k))
	}
	return value.Array(out...), nil
}

func objectValues(args []value.Value) (value.Value, error) {
	obj := args[0].AsObject()
	out := make([]value.Value, 0, obj.Len())
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		out = append(out, v)
	}
	return value.Array(out...), nil
}
