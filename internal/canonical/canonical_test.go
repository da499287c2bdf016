package canonical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "object keys sorted",
			in:   `{"b":2,"a":1}`,
			want: `{"a":1,"b":2}`,
		},
		{
			name: "nested objects sorted recursively",
			in:   `{"z":{"y":2,"x":1},"a":[{"k":1,"b":2}]}`,
			want: `{"a":[{"b":2,"k":1}],"z":{"x":1,"y":2}}`,
		},
		{
			name: "array order preserved",
			in:   `[3,1,2]`,
			want: `[3,1,2]`,
		},
		{
			name: "primitives",
			in:   `{"s":"text","n":1.5,"t":true,"nil":null}`,
			want: `{"n":1.5,"nil":null,"s":"text","t":true}`,
		},
		{
			name: "empty object and array",
			in:   `{"a":[],"b":{}}`,
			want: `{"a":[],"b":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(decode(t, tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalize_KeyOrderIndependent(t *testing.T) {
	a, err := Canonicalize(decode(t, `{"a":1,"b":{"c":[1,2],"d":"x"}}`))
	require.NoError(t, err)
	b, err := Canonicalize(decode(t, `{"b":{"d":"x","c":[1,2]},"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalize_ArrayOrderSensitive(t *testing.T) {
	a, err := Canonicalize(decode(t, `[1,2]`))
	require.NoError(t, err)
	b, err := Canonicalize(decode(t, `[2,1]`))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestContentHash(t *testing.T) {
	payload1 := decode(t, `{"title":"Soup","ingredients":["water","salt"]}`)
	payload2 := decode(t, `{"ingredients":["water","salt"],"title":"Soup"}`)

	h1, err := ContentHash("Soup", payload1)
	require.NoError(t, err)
	h2, err := ContentHash("Soup", payload2)
	require.NoError(t, err)

	// Same structure, different key order: identical digest.
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", h1)

	h3, err := ContentHash("Stew", payload1)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
