package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var values []IRValue
	values = append(values, IRNull{}, IRString("s"), IRInt(1), IRBool(true), IRArray{}, IRObject{})
	assert.Len(t, values, 6)
}

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{"c": IRInt(3), "a": IRInt(1), "b": IRInt(2)}
	assert.Equal(t, []string{"a", "b", "c"}, obj.SortedKeys())
}

func TestIRObjectClone(t *testing.T) {
	obj := IRObject{"a": IRInt(1)}
	clone := obj.Clone()
	clone["a"] = IRInt(2)
	assert.Equal(t, IRInt(1), obj["a"])
}

func TestMarshalIRObjectKeyOrder(t *testing.T) {
	obj := IRObject{"name": IRString("ada"), "age": IRInt(36), "nick": IRNull{}}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"age":36,"name":"ada","nick":null}`, string(data))
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected IRValue
	}{
		{"nil", nil, IRNull{}},
		{"string", "x", IRString("x")},
		{"bytes", []byte("raw"), IRString("raw")},
		{"bool", true, IRBool(true)},
		{"int", 7, IRInt(7)},
		{"int32", int32(-3), IRInt(-3)},
		{"int64", int64(1 << 40), IRInt(1 << 40)},
		{"integral float", float64(12), IRInt(12)},
		{"json number", json.Number("42"), IRInt(42)},
		{"slice", []any{1, "a"}, IRArray{IRInt(1), IRString("a")}},
		{"map", map[string]any{"k": false}, IRObject{"k": IRBool(false)}},
		{"already ir", IRString("y"), IRString("y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromGoRejectsFloats(t *testing.T) {
	_, err := FromGo(1.5)
	require.Error(t, err)

	_, err = FromGo(json.Number("1e3"))
	require.Error(t, err)

	_, err = FromGo(struct{}{})
	require.Error(t, err)
}

func TestToGo(t *testing.T) {
	v, err := ToGo(IRString("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = ToGo(IRInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = ToGo(IRNull{})
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ToGo(IRArray{})
	require.Error(t, err)
	_, err = ToGo(IRObject{})
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b IRValue
		cmp  int
		ok   bool
	}{
		{"ints less", IRInt(1), IRInt(2), -1, true},
		{"ints equal", IRInt(2), IRInt(2), 0, true},
		{"strings greater", IRString("b"), IRString("a"), 1, true},
		{"bool vs int", IRBool(true), IRInt(1), 0, true},
		{"null first", IRNull{}, IRInt(-100), -1, true},
		{"null last arg", IRString("a"), IRNull{}, 1, true},
		{"both null", IRNull{}, nil, 0, true},
		{"int vs string", IRInt(1), IRString("1"), 0, false},
		{"array", IRArray{}, IRArray{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cmp, cmp)
		})
	}
}

func TestEqualNullNeverEqual(t *testing.T) {
	assert.False(t, Equal(IRNull{}, IRNull{}))
	assert.False(t, Equal(IRNull{}, IRInt(0)))
	assert.True(t, Equal(IRString("x"), IRString("x")))
	assert.True(t, IsNull(nil))
}
