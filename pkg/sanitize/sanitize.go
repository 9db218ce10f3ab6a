// Package sanitize cleans up assistant text returned by providers that wrap
// machine-readable output in markdown.
package sanitize

import (
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

const fence = "```"

// Fences removes a surrounding markdown code fence from text. When the text,
// ignoring leading whitespace, begins with a fence (optionally tagged, e.g.
// "```json"), the opening fence line and a trailing closing fence are
// dropped and the inner text is trimmed. Any other text is returned as is.
//
// Fences is idempotent: Fences(Fences(s)) == Fences(s).
func Fences(text string) string {
	for {
		next := stripFence(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripFence(s string) string {
	body := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(body, fence) {
		return s
	}

	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		// Single line: "```json {...}```"
		body = strings.TrimPrefix(body, fence)
		body = strings.TrimPrefix(body, "json")
	}

	body = strings.TrimRight(body, " \t\r\n")
	body = strings.TrimSuffix(body, fence)
	return strings.TrimSpace(body)
}

// RepairJSON attempts to turn almost-JSON (trailing commas, single quotes,
// truncated objects) into valid JSON. The input is returned unchanged when
// it cannot be repaired.
func RepairJSON(text string) string {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return text
	}
	return repaired
}
