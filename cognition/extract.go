package cognition

import "encoding/json"

// ExtractJSONBlock returns the first balanced {...} block in raw.
// Completion responses often wrap the JSON object in prose or code
// fences; everything outside the block is ignored.
func ExtractJSONBlock(raw string) (json.RawMessage, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

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
				return json.RawMessage(raw[start : i+1]), true
			}
		}
	}
	return nil, false
}
