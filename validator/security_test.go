package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTokenFormat(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "JWS compact", token: "header.payload.signature"},
		{name: "JWE compact", token: "header.key.iv.ciphertext.tag"},
		{name: "max allowed dots", token: "a.b.c.d.e.f"},
		{name: "one dot too many", token: "a.b.c.d.e.f.g", wantErr: ErrExcessiveTokenDots},
		{name: "only dots", token: strings.Repeat(".", 10000), wantErr: ErrExcessiveTokenDots},
		{name: "empty", token: "", wantErr: ErrTokenEmpty},
		{name: "over 1MB", token: strings.Repeat("a", maxTokenSize+1), wantErr: ErrTokenTooLarge},
		{name: "exactly 1MB", token: "h." + strings.Repeat("a", maxTokenSize-6) + ".sig"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTokenFormat(tc.token)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateToken_RejectsBeforeParsing(t *testing.T) {
	v := newHSValidator(t)

	_, err := v.ValidateToken(context.Background(), strings.Repeat("a.", 1000)+"z")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExcessiveTokenDots)
}

func BenchmarkValidateTokenFormat(b *testing.B) {
	tokens := map[string]string{
		"normal":    "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.signature",
		"100 dots":  strings.Repeat("a.", 100) + "z",
		"1000 dots": strings.Repeat("a.", 1000) + "z",
	}

	for name, token := range tokens {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = validateTokenFormat(token)
			}
		})
	}
}
