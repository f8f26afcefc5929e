// Package value defines the dynamically typed tree shared by document
// parsing, function evaluation and projection. A Value is one of Null,
// Bool, Number, String, Array or Object; Objects keep their keys in
// insertion order so re-serialization is stable.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name as used by type_of().
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a single node in the tree. The zero value is Null.
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a number value with integer fidelity.
func Int(i int64) Value { return Value{kind: KindNumber, num: intNumber(i)} }

// Float returns a floating-point number value. Whole floats do not regain
// integer fidelity; use Int for that.
func Float(f float64) Value { return Value{kind: KindNumber, num: floatNumber(f)} }

// Num returns a number value wrapping n.
func Num(n Number) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array value over elems. The slice is taken as-is.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// ObjectVal returns an object value wrapping obj. A nil obj yields an
// empty object.
func ObjectVal(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the number payload. Valid only for KindNumber.
func (v Value) AsNumber() Number { return v.num }

// AsString returns the string payload. Valid only for KindString.
func (v Value) AsString() string { return v.str }

// AsArray returns the element slice. Valid only for KindArray.
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the ordered object. Valid only for KindObject.
func (v Value) AsObject() *Object { return v.obj }

// Text renders v the way documents see it when interpolated: strings are
// unquoted, numbers keep integer fidelity, composites render as compact
// JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Equal reports deep structural equality, including object key order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num.equal(b.num)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		ak, bk := a.obj.Keys(), b.obj.Keys()
		for i := range ak {
			if ak[i] != bk[i] {
				return false
			}
			av, _ := a.obj.Get(ak[i])
			bv, _ := b.obj.Get(bk[i])
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Object is a string-keyed mapping that preserves insertion order.
type Object struct {
	keys  []string
	items map[string]Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{items: make(map[string]Value)}
}

// Set stores v under key. Replacing an existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.items[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.items[key]
	return ok
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.items[key]; !ok {
		return
	}
	delete(o.items, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.items) }

// Extend copies every entry of src into o, later entries overwriting
// earlier ones on key collision.
func (o *Object) Extend(src *Object) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		o.Set(k, src.items[k])
	}
}

// Clone returns a shallow copy of o.
func (o *Object) Clone() *Object {
	out := NewObject()
	out.Extend(o)
	return out
}

// Number is a float64-precision numeric value carrying an
// integer-fidelity flag, so whole numbers survive projection as
// integers.
type Number struct {
	f     float64
	i     int64
	isInt bool
}

func intNumber(i int64) Number { return Number{f: float64(i), i: i, isInt: true} }
func floatNumber(f float64) Number { return Number{f: f} }

// IsInt reports whether the number carries integer fidelity.
func (n Number) IsInt() bool { return n.isInt }

// Int64 returns the integer form; for float numbers the fraction is
// truncated.
func (n Number) Int64() int64 {
	if n.isInt {
		return n.i
	}
	return int64(n.f)
}

// Float64 returns the floating-point form.
func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// String renders the number without losing integer fidelity.
func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'f', -1, 64)
}

func (n Number) equal(m Number) bool {
	if n.isInt != m.isInt {
		return false
	}
	if n.isInt {
		return n.i == m.i
	}
	return n.f == m.f
}

// canonical renders a Value as a deduplication key for unique()/toset().
func canonical(v Value) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v Value) {
	switch v.kind {
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeCanonical(sb, v.obj.items[k])
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(v.Text())
	}
}

// CanonicalKey returns a stable string key for v, used for set semantics.
func CanonicalKey(v Value) string { return canonical(v) }
