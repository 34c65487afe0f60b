// Package rules holds ozzo-validation rules shared by the content models.
package rules

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	httpURL  = regexp.MustCompile(`^https?://\S+$`)
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// HTTPURL accepts empty values and absolute http(s) URLs.
var HTTPURL = validation.Match(httpURL).Error("must be a valid http(s) URL")

// HexColor accepts empty values and #rgb / #rrggbb colors.
var HexColor = validation.Match(hexColor).Error("must be a hex color such as #007bff")

// Strings converts a list of string constants for validation.In.
func Strings[T ~string](values ...T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// NormalizeTags trims and lowercases tags, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TrimAll trims every element and drops empties.
func TrimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
