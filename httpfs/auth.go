package httpfs

import (
	"net/http"
	"strings"
)

// basicRealm finds a Basic challenge in the WWW-Authenticate headers and
// returns its realm. A Basic challenge without a realm yields an empty realm.
func basicRealm(h http.Header) (string, bool) {
	for _, v := range h.Values("WWW-Authenticate") {
		scheme, params, _ := strings.Cut(strings.TrimSpace(v), " ")
		if !strings.EqualFold(scheme, "Basic") {
			continue
		}

		return authParam(params, "realm"), true
	}

	return "", false
}

// authParam extracts the named parameter from a challenge's auth-params,
// which may be quoted (with backslash escapes) or bare tokens.
func authParam(params, name string) string {
	s := params

	for s != "" {
		s = strings.TrimLeft(s, " ,\t")

		key, rest, ok := strings.Cut(s, "=")
		if !ok {
			return ""
		}

		key = strings.TrimSpace(key)
		rest = strings.TrimLeft(rest, " \t")

		var val string

		if strings.HasPrefix(rest, `"`) {
			val, rest = unquote(rest[1:])
		} else {
			val, rest, _ = strings.Cut(rest, ",")
			val = strings.TrimSpace(val)
		}

		if strings.EqualFold(key, name) {
			return val
		}

		s = rest
	}

	return ""
}

// unquote reads a quoted-string body (the opening quote already consumed),
// returning the value and what follows the closing quote.
func unquote(s string) (string, string) {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"':
			return b.String(), s[i+1:]
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), ""
}
