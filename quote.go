package authscheme

import "strings"

// QuotedString renders s as an RFC 7230 quoted-string for challenge
// parameters. Only '"' and '\' are escaped; other bytes pass through.
func QuotedString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
