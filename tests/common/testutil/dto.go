//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap turns a request DTO into its JSON object form and applies muts, so
// tests can send bodies the typed DTO cannot express.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets the value at a dotted path such as "guest.email" or
// "lines.0.checkIn". A nil value removes the key.
func Field(path string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		keys := strings.Split(path, ".")
		var cur any = m
		for _, k := range keys[:len(keys)-1] {
			switch node := cur.(type) {
			case map[string]any:
				cur = node[k]
			case []any:
				i, err := strconv.Atoi(k)
				if err != nil || i >= len(node) {
					panic("testutil.Field: bad index " + k + " in " + path)
				}
				cur = node[i]
			default:
				panic("testutil.Field: cannot descend into " + path)
			}
		}

		obj, ok := cur.(map[string]any)
		if !ok {
			panic("testutil.Field: parent of " + path + " is not an object")
		}
		last := keys[len(keys)-1]
		if value == nil {
			delete(obj, last)
			return
		}
		obj[last] = value
	}
}
