/*
Package cookie keeps an authenticated ticket in a signed session cookie.

The ticket principal and properties are stored as private claims of an
HS256 JWT. The principal must be JSON serializable; it is read back as the
decoded JSON value (for structs, a map[string]any).

	cookies := cookie.Register(&cookie.Options{
	    Options:           core.Options{AutomaticAuthenticate: true},
	    SigningKey:        key,
	    SlidingExpiration: true,
	})

Challenges redirect to LoginPath with the original request URI in the
ReturnUrl query parameter. SignIn and SignOut write or expire the cookie.
*/
package cookie
