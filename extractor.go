package authscheme

import (
	"errors"
	"net/http"
	"strings"
)

// CredentialExtractor is a function that takes a request as input and returns
// either a credential or an error. An error should only be returned if an
// attempt to present a credential for the scheme was found, but it was
// somehow incorrectly formed. In the case where a credential is simply not
// present, or belongs to another scheme, this should not be treated as an
// error. An empty string should be returned in that case.
type CredentialExtractor func(r *http.Request) (string, error)

// ErrMalformedAuthorization is returned when the Authorization header names
// the scheme but carries no usable credential.
var ErrMalformedAuthorization = errors.New("Authorization header format must be {scheme} {credential}")

// AuthHeaderExtractor builds a CredentialExtractor that reads the
// Authorization header for the given scheme (for example "Bearer" or
// "Basic"). The scheme prefix is compared case-insensitively. Headers for
// other schemes are ignored so several schemes can share the header.
func AuthHeaderExtractor(scheme string) CredentialExtractor {
	return func(r *http.Request) (string, error) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			return "", nil // No error, just no credential.
		}

		authHeaderParts := strings.Fields(authHeader)
		if len(authHeaderParts) == 0 || !strings.EqualFold(authHeaderParts[0], scheme) {
			return "", nil
		}
		if len(authHeaderParts) != 2 {
			return "", ErrMalformedAuthorization
		}

		return authHeaderParts[1], nil
	}
}

// CookieExtractor builds a CredentialExtractor that takes a request and
// extracts the credential from the cookie using the passed in cookieName.
func CookieExtractor(cookieName string) CredentialExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if errors.Is(err, http.ErrNoCookie) {
			return "", nil // No cookie, then no credential, so no error.
		}
		if err != nil {
			return "", err
		}

		return cookie.Value, nil
	}
}

// ParameterExtractor returns a CredentialExtractor that extracts
// the credential from the specified query string parameter.
func ParameterExtractor(param string) CredentialExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// MultiExtractor returns a CredentialExtractor that runs multiple extractors
// and takes the one that does not return an empty credential. If an
// extractor returns an error that error is immediately returned.
func MultiExtractor(extractors ...CredentialExtractor) CredentialExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			credential, err := ex(r)
			if err != nil {
				return "", err
			}

			if credential != "" {
				return credential, nil
			}
		}
		return "", nil
	}
}
