package funcs

import (
	"fmt"
	"strconv"

	"github.com/theMackabu/ship/pkg/value"
)

// declareConvert registers the type utilities and the array constructors.
// The constructor trio s/list/tuple and the set/string/number conversions
// are deliberate ergonomic aliases, not conflicts.
func (r *Registry) declareConvert() {
	r.declare(Definition{Name: "type_of", Params: []ParamType{TypeAny}, Impl: typeOf})
	r.declare(Definition{Name: "s", VarParam: typed(TypeAny), Impl: toVec})
	r.declare(Definition{Name: "list", VarParam: typed(TypeAny), Impl: toVec})
	r.declare(Definition{Name: "tuple", VarParam: typed(TypeAny), Impl: toVec})
	r.declare(Definition{Name: "set", Params: []ParamType{TypeArray}, Impl: uniqueElems})
	r.declare(Definition{Name: "string", Params: []ParamType{TypeAny}, Impl: toString})
	r.declare(Definition{Name: "number", Params: []ParamType{TypeAny}, Impl: toNumber})
}

func typeOf(args []value.Value) (value.Value, error) {
	return value.String(args[0].Kind().String()), nil
}

func toVec(args []value.Value) (value.Value, error) {
	return value.Array(args...), nil
}

func toString(args []value.Value) (value.Value, error) {
	return value.String(args[0].Text()), nil
}

func toNumber(args []value.Value) (value.Value, error) {
	if args[0].Kind() == value.KindNumber {
		return args[0], nil
	}
	text := args[0].Text()
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to convert %q to number", text)
	}
	return value.Float(f), nil
}
