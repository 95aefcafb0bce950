package lib

import "strings"

// Segment is a run of output text that is either inside or outside a string
// literal. Text transforms that must not touch literal contents work over
// segments.
type Segment struct {
	Text   string
	Quoted bool
}

// SplitQuoted cuts a line into quoted and unquoted segments. Quotes include
// their delimiters in the quoted segment. An unterminated quote runs to the
// end of the line.
func SplitQuoted(s string) []Segment {
	var segs []Segment
	var cur strings.Builder
	inQuote := false
	var quote byte

	flush := func(quoted bool) {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Text: cur.String(), Quoted: quoted})
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
				continue
			}
			if c == quote {
				inQuote = false
				flush(true)
			}
			continue
		}
		if c == '"' || c == '\'' {
			flush(false)
			inQuote = true
			quote = c
		}
		cur.WriteByte(c)
	}
	flush(inQuote)
	return segs
}

// MapUnquoted applies fn to the unquoted segments of s and reassembles the
// line, leaving string literals untouched.
func MapUnquoted(s string, fn func(string) string) string {
	if !strings.ContainsAny(s, `"'`) {
		return fn(s)
	}
	var out strings.Builder
	for _, seg := range SplitQuoted(s) {
		if seg.Quoted {
			out.WriteString(seg.Text)
		} else {
			out.WriteString(fn(seg.Text))
		}
	}
	return out.String()
}

// IsWordByte reports whether c can appear inside an identifier or keyword.
func IsWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
