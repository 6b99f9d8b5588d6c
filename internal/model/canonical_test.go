package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"kind", KindPost, `"post"`},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"b", "a"}, `["b","a"]`},
		{"no html escape", "<a&b>", `"<a&b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"zebra": 1, "alpha": 2, "beta": map[string]any{"y": 1, "x": 2}})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(got))
}

func TestMarshalCanonicalEntities(t *testing.T) {
	u := NewUser("u1", "Ann", "a@x.com", nil)
	got, err := MarshalCanonical(u)
	require.NoError(t, err)
	assert.Equal(t, `{"email":"a@x.com","id":"u1","name":"Ann"}`, string(got), "absent age is omitted")

	u.Age = IntPtr(3)
	got, err = MarshalCanonical(u)
	require.NoError(t, err)
	assert.Equal(t, `{"age":3,"email":"a@x.com","id":"u1","name":"Ann"}`, string(got))

	p := NewPost("p1", "T", "B", true, "u1")
	got, err = MarshalCanonical(p)
	require.NoError(t, err)
	assert.Equal(t, `{"author":"u1","body":"B","id":"p1","published":true,"title":"T"}`, string(got))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got), "escaped backslash stays escaped")
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"k": struct{}{}})
	assert.Error(t, err)
}
