package ai

import (
	"errors"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} region of text. Completion
// replies are not guaranteed to contain only JSON: preambles, markdown fences
// and postambles are common, so the scanner skips everything before the first
// opening brace and stops at its matching close. Braces inside JSON strings do
// not count toward the balance.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errors.New("no JSON object in text")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced JSON object in text")
}
