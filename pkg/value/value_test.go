package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestObjectOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zebra", Int(1))
	obj.Set("apple", Int(2))
	obj.Set("mango", Int(3))

	assert.Equal(t, []string{"zebra", "apple", "mango"}, obj.Keys())

	// Replacing keeps position, deleting removes it.
	obj.Set("apple", Int(20))
	assert.Equal(t, []string{"zebra", "apple", "mango"}, obj.Keys())
	obj.Delete("zebra")
	assert.Equal(t, []string{"apple", "mango"}, obj.Keys())

	v, ok := obj.Get("apple")
	require.True(t, ok)
	assert.Equal(t, int64(20), v.AsNumber().Int64())
}

func TestNumberFidelity(t *testing.T) {
	assert.True(t, Int(42).AsNumber().IsInt())
	assert.Equal(t, "42", Int(42).AsNumber().String())
	assert.False(t, Float(42.5).AsNumber().IsInt())
	assert.Equal(t, "42.5", Float(42.5).AsNumber().String())

	// Truncation, not rounding.
	assert.Equal(t, int64(3), Float(3.9).AsNumber().Int64())
}

func TestText(t *testing.T) {
	assert.Equal(t, "null", Null().Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "hello", String("hello").Text())
	assert.Equal(t, "3", Int(3).Text())
	assert.Equal(t, "[1,2]", Array(Int(1), Int(2)).Text())
}

func TestJSONRoundTrip(t *testing.T) {
	obj := NewObject()
	obj.Set("b", Int(2))
	obj.Set("a", Array(String("x"), Bool(false), Float(1.5)))
	inner := NewObject()
	inner.Set("z", Int(26))
	inner.Set("y", Int(25))
	obj.Set("nested", ObjectVal(inner))
	v := ObjectVal(obj)

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":["x",false,1.5],"nested":{"z":26,"y":25}}`, string(data))

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.True(t, Equal(v, back), "round trip must preserve structure and order")
}

func TestJSONRejectsNaN(t *testing.T) {
	_, err := Float(math.NaN()).MarshalJSON()
	require.Error(t, err)
	_, err = Array(Float(math.Inf(1))).MarshalJSON()
	require.Error(t, err)
}

func TestFromJSONErrors(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":`))
	assert.Error(t, err)
	_, err = FromJSON([]byte(`1 2`))
	assert.Error(t, err)
}

func TestCtyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   cty.Value
		want Value
	}{
		{"null", cty.NullVal(cty.String), Null()},
		{"bool", cty.True, Bool(true)},
		{"int", cty.NumberIntVal(7), Int(7)},
		{"float", cty.NumberFloatVal(2.5), Float(2.5)},
		{"string", cty.StringVal("hi"), String("hi")},
		{"tuple", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("x")}), Array(Int(1), String("x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCty(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got))
		})
	}

	// Value -> cty -> Value keeps integer fidelity.
	v, err := FromCty(ToCty(Int(99)))
	require.NoError(t, err)
	assert.True(t, v.AsNumber().IsInt())
}

func TestEqual(t *testing.T) {
	a := NewObject()
	a.Set("x", Int(1))
	a.Set("y", Int(2))
	b := NewObject()
	b.Set("y", Int(2))
	b.Set("x", Int(1))

	// Same entries, different order: not equal.
	assert.False(t, Equal(ObjectVal(a), ObjectVal(b)))
	assert.True(t, Equal(ObjectVal(a), ObjectVal(a.Clone())))
	assert.False(t, Equal(Int(1), Float(1)))
}

func TestFromAnySortsKeys(t *testing.T) {
	v, err := FromAny(map[string]any{"b": 1, "a": []any{true, nil}})
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"a", "b"}, v.AsObject().Keys())
}
