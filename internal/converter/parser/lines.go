package parser

import "strings"

// sourceLine is one physical line with its leading-whitespace column count.
// Indentation is the only structural signal the parser uses.
type sourceLine struct {
	num     int    // 1-indexed
	indent  int    // column count, tabs expanded to the indent unit
	text    string // trimmed content, trailing comment stripped
	comment string // trailing or full-line comment text, without the marker
	blank   bool
}

func splitLines(source string, indentSize int) []sourceLine {
	if indentSize <= 0 {
		indentSize = 4
	}
	raw := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	out := make([]sourceLine, 0, len(raw))
	for i, line := range raw {
		ln := sourceLine{num: i + 1}
		indent := 0
		j := 0
		for ; j < len(line); j++ {
			if line[j] == ' ' {
				indent++
			} else if line[j] == '\t' {
				indent += indentSize - indent%indentSize
			} else {
				break
			}
		}
		ln.indent = indent
		content := strings.TrimRight(line[j:], " \t")
		if content == "" {
			ln.blank = true
			out = append(out, ln)
			continue
		}
		code, comment := stripComment(content)
		ln.text = strings.TrimRight(code, " \t")
		ln.comment = comment
		if ln.text == "" && comment == "" {
			ln.blank = true
		}
		out = append(out, ln)
	}
	return out
}

// stripComment splits code from a trailing # comment, ignoring # inside
// string literals.
func stripComment(s string) (code, comment string) {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '#':
			return s[:i], strings.TrimSpace(strings.TrimPrefix(s[i:], "#"))
		}
	}
	return s, ""
}

// splitTopLevel finds the first occurrence of sep at bracket depth zero and
// outside string literals. Returns -1 when absent.
func splitTopLevel(s, sep string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				return i
			}
		}
	}
	return -1
}

// findAssign locates a top-level assignment operator. It returns the index of
// the '=' along with the augmented-assignment operator ("+", "-", "*", "/")
// or "" for plain assignment. Comparison operators are not assignments.
func findAssign(s string) (idx int, augOp string) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			// skip ==, and the left halves of <=, >=, !=
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 {
				switch s[i-1] {
				case '=', '<', '>', '!':
					continue
				case '+', '-', '*', '/':
					return i, string(s[i-1])
				}
			}
			return i, ""
		}
	}
	return -1, ""
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		letter := ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		digit := '0' <= ch && ch <= '9'
		if i == 0 && !letter {
			return false
		}
		if !letter && !digit {
			return false
		}
	}
	return true
}

// headerColon returns the index of the colon that terminates a block header,
// skipping colons inside brackets and strings. -1 when absent.
func headerColon(s string) int {
	return splitTopLevel(s, ":")
}
