//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body after it has been flattened to JSON keys.
type Mutation func(m map[string]any)

// DtoMap renders v through its JSON tags so tests can break individual fields.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets key, or removes it when value is nil.
func Field(key string, value any) Mutation {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// Nested applies Field inside the object stored under parent.
func Nested(parent, key string, value any) Mutation {
	return func(m map[string]any) {
		inner, ok := m[parent].(map[string]any)
		if !ok {
			return
		}
		Field(key, value)(inner)
	}
}
