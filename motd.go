// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"fmt"
	"strings"
)

// formattingMarker introduces a two-character formatting code such as "§a".
const formattingMarker = '§'

// NormalizeMotd turns a raw message of the day into plain text.
//
// The raw value is either a string or a decoded rich-text component: a
// map whose "text" is the base text and whose "extra" list holds nested
// fragments, appended in order. Formatting codes are stripped from the
// concatenation.
func NormalizeMotd(raw any) string {
	return StripFormatting(flattenMotd(raw))
}

func flattenMotd(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		var sb strings.Builder
		if text, ok := v["text"].(string); ok {
			sb.WriteString(text)
		}
		if extra, ok := v["extra"].([]any); ok {
			for _, fragment := range extra {
				sb.WriteString(flattenMotd(fragment))
			}
		}
		return sb.String()
	case []any:
		var sb strings.Builder
		for _, fragment := range v {
			sb.WriteString(flattenMotd(fragment))
		}
		return sb.String()
	default:
		return fmt.Sprint(v)
	}
}

// StripFormatting removes every "§" and the character following it.
func StripFormatting(text string) string {
	if !strings.ContainsRune(text, formattingMarker) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	skip := false
	for _, r := range text {
		switch {
		case skip:
			skip = false
		case r == formattingMarker:
			skip = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
