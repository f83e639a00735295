package minify

// JSON strips insignificant whitespace from a JSON-bearing text and rewrites
// bare null literals to the alias N. String literals pass through untouched.
//
// The output is prefixed at assembly time with `var N=null;`, so the alias
// resolves when the artifact is evaluated by the consumer.
func JSON(text string) string {
	out := make([]byte, 0, len(text))
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		b := text[i]

		if inString {
			out = append(out, b)
			if escaped {
				escaped = false
			} else if b == '\\' {
				escaped = true
			} else if b == '"' {
				inString = false
			}
			continue
		}

		switch {
		case b == '"':
			inString = true
			out = append(out, b)
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			// insignificant between structural tokens
		case b == 'n' && hasNullAt(text, i):
			out = append(out, 'N')
			i += 3
		default:
			out = append(out, b)
		}
	}
	return string(out)
}

// hasNullAt reports whether a bare null literal starts at i.
func hasNullAt(s string, i int) bool {
	if i+4 > len(s) || s[i:i+4] != "null" {
		return false
	}
	// Must not be a prefix of a longer identifier.
	if i+4 < len(s) && isWordByte(s[i+4]) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	return true
}
