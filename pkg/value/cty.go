package value

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts an evaluator-native value into a Value. The mapping is
// total for known, unmarked values: every cty kind the expression
// evaluator can produce has a Value counterpart. Object attributes arrive
// in cty's canonical (sorted) order; syntactic ordering is handled by the
// document walker before values reach this point.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("value is not known")
	}
	t := v.Type()
	switch {
	case t == cty.Bool:
		return Bool(v.True()), nil
	case t == cty.Number:
		return Num(numberFromBig(v.AsBigFloat())), nil
	case t == cty.String:
		return String(v.AsString()), nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		elems := make([]Value, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e, err := FromCty(ev)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, e)
		}
		return Array(elems...), nil
	case t.IsObjectType() || t.IsMapType():
		obj := NewObject()
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			e, err := FromCty(ev)
			if err != nil {
				return Value{}, err
			}
			obj.Set(kv.AsString(), e)
		}
		return ObjectVal(obj), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %s", t.FriendlyName())
}

func numberFromBig(bf *big.Float) Number {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return intNumber(i)
		}
	}
	f, _ := bf.Float64()
	return floatNumber(f)
}

// ToCty converts a Value back into an evaluator-native value. Arrays map
// to tuples and objects to object types so heterogeneous documents stay
// representable.
func ToCty(v Value) cty.Value {
	switch v.kind {
	case KindBool:
		return cty.BoolVal(v.b)
	case KindNumber:
		if v.num.isInt {
			return cty.NumberIntVal(v.num.i)
		}
		return cty.NumberFloatVal(v.num.f)
	case KindString:
		return cty.StringVal(v.str)
	case KindArray:
		if len(v.arr) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = ToCty(e)
		}
		return cty.TupleVal(elems)
	case KindObject:
		if v.obj.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, v.obj.Len())
		for _, k := range v.obj.keys {
			attrs[k] = ToCty(v.obj.items[k])
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}
