package credentials

import (
	"io/fs"
	"os"

	"github.com/hairyhenderson/go-urlfs/internal/env"
)

// FromEnv seeds s with a fallback credential from $URLFS_HTTP_USERNAME and
// $URLFS_HTTP_PASSWORD (or $URLFS_HTTP_PASSWORD_FILE). It reports whether a
// username was found.
func FromEnv(s *Store) bool {
	return fromEnvFS(os.DirFS("/"), s)
}

func fromEnvFS(fsys fs.FS, s *Store) bool {
	username := env.GetenvFS(fsys, env.Prefix+"HTTP_USERNAME")
	if username == "" {
		return false
	}

	s.SetFallback(username, env.GetenvFS(fsys, env.Prefix+"HTTP_PASSWORD"))

	return true
}
