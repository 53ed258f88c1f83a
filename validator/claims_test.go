package validator

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
)

func TestNewRegisteredClaims(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)

	t.Run("all claims", func(t *testing.T) {
		token, err := jwt.NewBuilder().
			Issuer("https://issuer.example.com/").
			Subject("user-1").
			Audience([]string{"api", "admin"}).
			Expiration(now.Add(time.Hour)).
			NotBefore(now).
			IssuedAt(now.Add(-time.Minute)).
			JwtID("id-1").
			Build()
		require.NoError(t, err)

		want := RegisteredClaims{
			Issuer:    "https://issuer.example.com/",
			Subject:   "user-1",
			Audience:  []string{"api", "admin"},
			Expiry:    now.Add(time.Hour).Unix(),
			NotBefore: now.Unix(),
			IssuedAt:  now.Add(-time.Minute).Unix(),
			ID:        "id-1",
		}
		if diff := cmp.Diff(want, newRegisteredClaims(token)); diff != "" {
			t.Errorf("newRegisteredClaims() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent claims are zero", func(t *testing.T) {
		token, err := jwt.NewBuilder().Subject("user-1").Build()
		require.NoError(t, err)

		if diff := cmp.Diff(RegisteredClaims{Subject: "user-1"}, newRegisteredClaims(token)); diff != "" {
			t.Errorf("newRegisteredClaims() mismatch (-want +got):\n%s", diff)
		}
	})
}
