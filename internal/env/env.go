// Package env contains functions that retrieve data from the environment
package env

import (
	"io/fs"
	"os"
	"strings"
)

// Prefix is prepended to every variable name looked up through Lookup.
const Prefix = "URLFS_"

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is unset, but the same variable ending in `_FILE` is set,
// the referenced file will be read into the value. Otherwise the provided
// default (or an empty string) is returned.
func Getenv(key string, def ...string) string {
	return GetenvFS(os.DirFS("/"), key, def...)
}

// GetenvFS is Getenv, resolving `_FILE` references against fsys.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	val, ok := lookupFS(fsys, key)
	if !ok && len(def) > 0 {
		return def[0]
	}

	return val
}

// Lookup returns the value of $URLFS_<name> (or the file named by
// $URLFS_<name>_FILE), and whether either was set to something non-empty.
func Lookup(name string) (string, bool) {
	return lookupFS(os.DirFS("/"), Prefix+name)
}

func lookupFS(fsys fs.FS, key string) (string, bool) {
	val := os.Getenv(key)
	if val != "" {
		return val, true
	}

	p := os.Getenv(key + "_FILE")
	if p == "" {
		return "", false
	}

	b, err := fs.ReadFile(fsys, strings.TrimPrefix(p, "/"))
	if err != nil {
		return "", false
	}

	val = strings.TrimSpace(string(b))

	return val, val != ""
}
