package auth

import (
	"net/http"
	"strings"
)

// TokenFromHeader extracts the bearer token from an Authorization header
// value. The scheme comparison is case-insensitive.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

// TokenFromRequest extracts the bearer token from a connection-establishment
// request: the Authorization header first, then a case-insensitive
// "authorization" query parameter. The parameter value may carry the
// "Bearer <token>" form or the bare token.
func TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		return TokenFromHeader(h)
	}

	for key, vals := range r.URL.Query() {
		if !strings.EqualFold(key, "authorization") || len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[0])
		if v == "" {
			break
		}
		if tok, err := TokenFromHeader(v); err == nil {
			return tok, nil
		}
		return v, nil
	}
	return "", ErrMissingToken
}
