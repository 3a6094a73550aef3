package httpcmd

import (
	"fmt"
	"mime"
	"strings"
)

// ContentType is a media type sent as a request's Content-Type or Accept
// header.
type ContentType string

const (
	JSON ContentType = "application/json"
	XML  ContentType = "application/xml"
	TEXT ContentType = "text/plain"
)

//nolint:gochecknoglobals
var shortNames = map[string]ContentType{
	"json": JSON,
	"xml":  XML,
	"text": TEXT,
}

// ParseContentType accepts one of the short names json, xml or text (in any
// case), or any full media type. The empty string yields an empty
// ContentType.
func ParseContentType(s string) (ContentType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if ct, ok := shortNames[strings.ToLower(s)]; ok {
		return ct, nil
	}

	if _, _, err := mime.ParseMediaType(s); err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", s, err)
	}

	return ContentType(s), nil
}

func (c ContentType) String() string {
	return string(c)
}

// Set implements flag.Value.
func (c *ContentType) Set(s string) error {
	ct, err := ParseContentType(s)
	if err != nil {
		return err
	}

	*c = ct

	return nil
}
