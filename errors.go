package urlfs

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotFound is returned (wrapped in an [fs.PathError]) when a child or
	// parent URL can't be constructed.
	ErrNotFound = fs.ErrNotExist

	// ErrProtocol marks failures that indicate a programming error, such as a
	// node URL that can't be turned into a request. These are not expected to
	// be handled by normal control flow.
	ErrProtocol = errors.New("protocol error")
)
