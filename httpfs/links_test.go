package httpfs

import (
	"testing"

	"github.com/hairyhenderson/go-urlfs/internal/tests"
	"github.com/stretchr/testify/assert"
)

func TestScrapeLinks(t *testing.T) {
	testdata := []struct {
		body     string
		expected []string
	}{
		{"", []string{}},
		{"no links here", []string{}},
		{`<a href="/relative">x</a>`, []string{}},
		{`<a href="http://h/a/b">b</a>`, []string{"http://h/a/b"}},
		{`<a href='https://h/a/c'>c</a>`, []string{"https://h/a/c"}},
		{`"http://h/b" "http://h/a" "http://h/b"`, []string{"http://h/a", "http://h/b"}},
		{`{"self":"http://h/x?y=1","next":'http://h/z'}`, []string{"http://h/x?y=1", "http://h/z"}},
		// mismatched quotes do not delimit a link
		{`"http://h/a'`, []string{}},
		{`ftp://h/a "ftp://h/b"`, []string{}},
	}

	for _, d := range testdata {
		assert.Equal(t, d.expected, ScrapeLinks([]byte(d.body)), d.body)
	}
}

func TestScrapeLinks_Page(t *testing.T) {
	page := tests.LinkPage("http://h/a/2", "http://h/a/1", "http://h/a/2")
	assert.Equal(t, []string{"http://h/a/1", "http://h/a/2"}, ScrapeLinks([]byte(page)))
}
