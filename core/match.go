package core

import "strings"

// ShouldHandleScheme decides whether a handler configured with scheme
// configured (and the automatic flag) should act on a request naming
// requested.
//
// The two modes are exclusive:
//   - automatic: the handler must be automatic and the request must name no
//     scheme (empty or whitespace). A named scheme never matches here, even
//     the handler's own.
//   - explicit: the request must name a scheme equal to configured, compared
//     byte-wise.
func ShouldHandleScheme(configured string, automatic bool, requested string, handleAutomatic bool) bool {
	if handleAutomatic {
		return automatic && strings.TrimSpace(requested) == ""
	}
	return requested != "" && requested == configured
}
