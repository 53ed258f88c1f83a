package authscheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotedString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: `""`},
		{name: "plain", in: "api", want: `"api"`},
		{name: "quote and backslash", in: `say "hi" \o/`, want: `"say \"hi\" \\o/"`},
		{name: "non ascii", in: "café", want: `"café"`},
		{name: "tab", in: "a\tb", want: "\"a\tb\""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QuotedString(tc.in))
		})
	}
}
