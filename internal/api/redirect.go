package api

import "net/url"

// RedirectTarget decides where the landing route sends a visitor:
//   - an access token means the visitor is already authenticated — frontend;
//   - no token but a code in the query — /auth, which validates the code;
//   - neither — /auth, which starts the login flow.
//
// The original query is carried forward in both /auth cases. Pure function,
// always produces a target.
func RedirectTarget(frontendURI, token string, query url.Values) string {
	if token != "" {
		return frontendURI
	}

	target := "/auth"
	if enc := query.Encode(); enc != "" {
		target += "?" + enc
	}
	return target
}
