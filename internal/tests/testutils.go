// Package tests holds helpers shared by this module's tests.
package tests

import (
	"fmt"
	"net/url"
	"strings"
)

func MustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}

// LinkPage renders a minimal HTML page with one anchor per href, quoting
// alternately with double and single quotes.
func LinkPage(hrefs ...string) string {
	sb := strings.Builder{}
	sb.WriteString("<html><body>\n")

	for i, h := range hrefs {
		q := `"`
		if i%2 == 1 {
			q = `'`
		}

		fmt.Fprintf(&sb, "<a href=%s%s%s>%d</a>\n", q, h, q, i)
	}

	sb.WriteString("</body></html>\n")

	return sb.String()
}
