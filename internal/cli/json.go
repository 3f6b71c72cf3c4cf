package cli

import "strings"

// JSON token colors.
const (
	keyColor    = Blue
	stringColor = Green
	boolColor   = Yellow
	nullColor   = DimCode
	numberColor = Purple
)

// HighlightJSON colors the keys and scalar values of a JSON document. Input
// that is not valid JSON is colored on a best-effort basis and never rejected.
func HighlightJSON(src string) string {
	if !Enabled() {
		return src
	}

	var b strings.Builder
	b.Grow(len(src) * 2)

	for i := 0; i < len(src); {
		switch ch := src[i]; {
		case ch == '"':
			end := stringEnd(src, i)
			color := stringColor
			if isKey(src, end) {
				color = keyColor
			}
			paint(&b, src[i:end], color)
			i = end
		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(src) && strings.IndexByte("0123456789.eE+-", src[end]) >= 0 {
				end++
			}
			paint(&b, src[i:end], numberColor)
			i = end
		case strings.HasPrefix(src[i:], "true"):
			paint(&b, "true", boolColor)
			i += 4
		case strings.HasPrefix(src[i:], "false"):
			paint(&b, "false", boolColor)
			i += 5
		case strings.HasPrefix(src[i:], "null"):
			paint(&b, "null", nullColor)
			i += 4
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

// stringEnd returns the index just past the closing quote of the string
// starting at start, or len(s) if it is unterminated.
func stringEnd(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(s)
}

// isKey reports whether the next non-space byte after pos is a colon.
func isKey(s string, pos int) bool {
	rest := strings.TrimLeft(s[pos:], " \t\r\n")
	return strings.HasPrefix(rest, ":")
}

func paint(b *strings.Builder, token, color string) {
	b.WriteString(color)
	b.WriteString(token)
	b.WriteString(ResetCode)
}
