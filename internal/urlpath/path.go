// Package urlpath contains helpers for treating URL paths as a tree.
package urlpath

import "strings"

// Normalize removes a single trailing slash from p. The empty path and the
// root path both normalize to "/".
func Normalize(p string) string {
	if p == "" || p == "/" {
		return "/"
	}

	return strings.TrimSuffix(p, "/")
}

// Base returns the last element of the normalized path, or "/" for the root.
func Base(p string) string {
	p = Normalize(p)
	if p == "/" {
		return "/"
	}

	return p[strings.LastIndex(p, "/")+1:]
}

// Parent returns the normalized path's parent. The second return is false
// when p is at the top of the path (its only slash is the leading one), in
// which case the caller decides where "up" leads.
func Parent(p string) (string, bool) {
	p = Normalize(p)

	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "", false
	}

	return p[:i], true
}

// Join appends name to the normalized path p.
func Join(p, name string) string {
	p = Normalize(p)
	if p == "/" {
		return "/" + name
	}

	return p + "/" + name
}
