package funcs

import (
	"fmt"
	"math"
	"strconv"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareNumeric() {
	r.declare(Definition{Name: "abs", Params: []ParamType{TypeNumber}, Impl: absFn})
	r.declare(Definition{Name: "ceil", Params: []ParamType{TypeNumber}, Impl: ceil})
	r.declare(Definition{Name: "floor", Params: []ParamType{TypeNumber}, Impl: floor})
	r.declare(Definition{Name: "parseint", Params: []ParamType{TypeString}, Impl: parseint})
}

func absFn(args []value.Value) (value.Value, error) {
	n := args[0].AsNumber()
	if n.IsInt() {
		i := n.Int64()
		if i < 0 {
			i = -i
		}
		return value.Int(i), nil
	}
	return value.Float(math.Abs(n.Float64())), nil
}

func ceil(args []value.Value) (value.Value, error) {
	return value.Int(int64(math.Ceil(args[0].AsNumber().Float64()))), nil
}

func floor(args []value.Value) (value.Value, error) {
	return value.Int(int64(math.Floor(args[0].AsNumber().Float64()))), nil
}

func parseint(args []value.Value) (value.Value, error) {
	n, err := strconv.ParseInt(args[0].AsString(), 10, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to parse integer %q", args[0].AsString())
	}
	return value.Int(n), nil
}
