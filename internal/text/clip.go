// Package text provides small text-shaping helpers for logs, previews,
// and durable records.
package text

import "encoding/json"

// Clip hard-truncates s to at most n bytes. Used for durable log records,
// where the cap is a storage bound, not a display nicety.
func Clip(s string, n int) string {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// PreviewJSON renders v as compact JSON clipped to n bytes. Marshal
// failures degrade to an empty object rather than an error: previews are
// diagnostics, never control flow.
func PreviewJSON(v interface{}, n int) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return Clip(string(raw), n)
}
