// Package casing translates JSON object keys between the upstream API's
// snake_case convention and the dashboard's camelCase convention.
//
// The contract is deliberately narrow: keys are ASCII words, and each camel
// segment starts with a single capital letter. Keys with embedded digits or
// consecutive capitals do not round-trip in general.
package casing

import (
	"strings"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/slices"
)

// SnakeToCamel returns a copy of v (a decoded JSON value) with all object
// keys converted from snake_case to camelCase, recursively.
//
// When a key's name appears in preserveKeys, the key itself is still renamed
// at its own level, but its value subtree is passed through untouched.
// This supports payloads whose keys must not be mangled, like raw kubeconfig
// documents or user-defined metadata.
//
// v is never mutated. Values other than map[string]any and []any are
// returned as-is.
func SnakeToCamel(v any, preserveKeys ...string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			if slices.Contains(preserveKeys, k) {
				out[camelKey(k)] = sub
				continue
			}
			out[camelKey(k)] = SnakeToCamel(sub, preserveKeys...)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for nth, sub := range val {
			out[nth] = SnakeToCamel(sub, preserveKeys...)
		}
		return out
	default:
		return v
	}
}

// CamelToSnake is the structural inverse of SnakeToCamel, applied to
// outbound request bodies before they are sent upstream.
//
// v is never mutated.
func CamelToSnake(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[snakeKey(k)] = CamelToSnake(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for nth, sub := range val {
			out[nth] = CamelToSnake(sub)
		}
		return out
	default:
		return v
	}
}

// camelKey converts one key: "node_count" -> "nodeCount".
//
// Only an underscore followed by a lowercase letter starts a new camel
// segment. Leading and trailing underscores, and underscores before digits,
// are kept verbatim ("_foo_2_bar" -> "_foo_2Bar").
func camelKey(k string) string {
	head := 0
	for head < len(k) && k[head] == '_' {
		head++
	}

	var b strings.Builder
	b.Grow(len(k))
	b.WriteString(k[:head])

	upper := false
	for i := head; i < len(k); i++ {
		c := k[i]
		if c == '_' {
			if i+1 < len(k) && 'a' <= k[i+1] && k[i+1] <= 'z' {
				upper = true
				continue
			}
			b.WriteByte(c)
			continue
		}
		if upper {
			b.WriteByte(c - 'a' + 'A')
			upper = false
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// snakeKey converts one key: "nodeCount" -> "node_count".
//
// A run of capitals is treated as one segment ("kubeConfigCRT" ->
// "kube_config_crt", "gpuID" -> "gpu_id") so acronyms do not explode into
// single-letter words. Still not a perfect inverse of camelKey for such
// keys, which the design accepts.
func snakeKey(k string) string {
	var b strings.Builder
	b.Grow(len(k) + 4)

	for i := 0; i < len(k); i++ {
		c := k[i]
		if c < 'A' || 'Z' < c {
			b.WriteByte(c)
			continue
		}
		prevUpper := 0 < i && 'A' <= k[i-1] && k[i-1] <= 'Z'
		nextLower := i+1 < len(k) && 'a' <= k[i+1] && k[i+1] <= 'z'
		if 0 < i && (!prevUpper || nextLower) {
			b.WriteByte('_')
		}
		b.WriteByte(c - 'A' + 'a')
	}
	return b.String()
}
