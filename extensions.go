package urlfs

import "net/http"

type withHeaderer interface {
	WithHeader(headers http.Header) Backend
}

// WithHeader injects default headers into the backend b, if the backend
// supports it (i.e. has a WithHeader method). Headers given here are sent
// with every request the backend makes.
func WithHeader(headers http.Header, b Backend) Backend {
	if hb, ok := b.(withHeaderer); ok {
		return hb.WithHeader(headers)
	}

	return b
}

type unwrapper interface {
	Unwrap() Backend
}

// Unwrap returns the innermost backend of b, following any wrappers (such as
// tracing) that expose an Unwrap method.
func Unwrap(b Backend) Backend {
	for {
		u, ok := b.(unwrapper)
		if !ok {
			return b
		}

		b = u.Unwrap()
	}
}
