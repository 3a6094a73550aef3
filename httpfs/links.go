package httpfs

import (
	"regexp"
	"sort"
)

var linkPattern = regexp.MustCompile(`"(https?://[^"]+)"|'(https?://[^']+)'`)

// ScrapeLinks returns every absolute http or https URL found in body between
// matching double or single quotes, sorted and without duplicates.
func ScrapeLinks(body []byte) []string {
	seen := map[string]struct{}{}

	for _, m := range linkPattern.FindAllSubmatch(body, -1) {
		link := m[1]
		if link == nil {
			link = m[2]
		}

		seen[string(link)] = struct{}{}
	}

	links := make([]string, 0, len(seen))
	for l := range seen {
		links = append(links, l)
	}

	sort.Strings(links)

	return links
}
