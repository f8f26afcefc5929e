package funcs

import (
	"fmt"
	"strings"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareStrings() {
	r.declare(Definition{Name: "upper", Namespace: []string{"str"}, Params: []ParamType{TypeString}, Impl: upper})
	r.declare(Definition{Name: "lower", Namespace: []string{"str"}, Params: []ParamType{TypeString}, Impl: lower})
	r.declare(Definition{Name: "trim", Namespace: []string{"str"}, Params: []ParamType{TypeString, TypeString}, Impl: trim})
	r.declare(Definition{Name: "trimspace", Namespace: []string{"str"}, Params: []ParamType{TypeString}, Impl: trimspace})
	r.declare(Definition{Name: "trimprefix", Namespace: []string{"str"}, Params: []ParamType{TypeString, TypeString}, Impl: trimprefix})
	r.declare(Definition{Name: "trimsuffix", Namespace: []string{"str"}, Params: []ParamType{TypeString, TypeString}, Impl: trimsuffix})
	r.declare(Definition{Name: "split", Params: []ParamType{TypeString, TypeString}, Impl: split})
	r.declare(Definition{Name: "join", Params: []ParamType{TypeArray, TypeString}, Impl: join})
	r.declare(Definition{Name: "format", VarParam: typed(TypeAny), Impl: formatFn})
	r.declare(Definition{Name: "concat", VarParam: typed(TypeString), Impl: concat})
}

func upper(args []value.Value) (value.Value, error) {
	return value.String(strings.ToUpper(args[0].AsString())), nil
}

func lower(args []value.Value) (value.Value, error) {
	return value.String(strings.ToLower(args[0].AsString())), nil
}

func trim(args []value.Value) (value.Value, error) {
	return value.String(strings.Trim(args[0].AsString(), args[1].AsString())), nil
}

func trimspace(args []value.Value) (value.Value, error) {
	return value.String(strings.TrimSpace(args[0].AsString())), nil
}

func trimprefix(args []value.Value) (value.Value, error) {
	return value.String(strings.TrimPrefix(args[0].AsString(), args[1].AsString())), nil
}

func trimsuffix(args []value.Value) (value.Value, error) {
	return value.String(strings.TrimSuffix(args[0].AsString(), args[1].AsString())), nil
}

func split(args []value.Value) (value.Value, error) {
	parts := strings.Split(args[0].AsString(), args[1].AsString())
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.Array(out...), nil
}

func join(args []value.Value) (value.Value, error) {
	elems := args[0].AsArray()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Text()
	}
	return value.String(strings.Join(parts, args[1].AsString())), nil
}

// formatFn substitutes %s, %d, %f and %% specifiers left to right. %d
// truncates to an integer; %% emits a literal percent without consuming
// an argument. Unknown specifiers, non-numeric arguments to numeric
// specifiers and running out of arguments are all errors.
func formatFn(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, fmt.Errorf("requires at least one argument")
	}
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("first argument must be a format string")
	}

	format := args[0].AsString()
	rest := args[1:]
	argIndex := 0

	var out strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			out.WriteByte(format[i])
			continue
		}
		if i+1 >= len(format) {
			return value.Value{}, fmt.Errorf("invalid format string: %% at end of string")
		}
		i++
		spec := format[i]
		if spec == '%' {
			out.WriteByte('%')
			continue
		}
		if argIndex >= len(rest) {
			return value.Value{}, fmt.Errorf("not enough arguments for format string")
		}
		arg := rest[argIndex]
		switch spec {
		case 's':
			out.WriteString(arg.Text())
		case 'd':
			if arg.Kind() != value.KindNumber {
				return value.Value{}, fmt.Errorf("expected number for %%d specifier")
			}
			out.WriteString(fmt.Sprintf("%d", arg.AsNumber().Int64()))
		case 'f':
			if arg.Kind() != value.KindNumber {
				return value.Value{}, fmt.Errorf("expected number for %%f specifier")
			}
			out.WriteString(value.Float(arg.AsNumber().Float64()).Text())
		default:
			return value.Value{}, fmt.Errorf("unknown format specifier %%%c", spec)
		}
		argIndex++
	}

	return value.String(out.String()), nil
}

func concat(args []value.Value) (value.Value, error) {
	var out strings.Builder
	for _, arg := range args {
		out.WriteString(arg.AsString())
	}
	return value.String(out.String()), nil
}
