package httpcmd

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/hairyhenderson/go-urlfs/httpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentType(t *testing.T) {
	testdata := []struct {
		in       string
		expected ContentType
	}{
		{"", ""},
		{"json", JSON},
		{"JSON", JSON},
		{" Xml ", XML},
		{"text", TEXT},
		{"text/csv", "text/csv"},
		{"application/json; charset=utf-8", "application/json; charset=utf-8"},
	}

	for _, d := range testdata {
		ct, err := ParseContentType(d.in)
		require.NoError(t, err, d.in)
		assert.Equal(t, d.expected, ct, d.in)
	}

	_, err := ParseContentType("not a type")
	assert.Error(t, err)

	var ct ContentType
	require.NoError(t, ct.Set("xml"))
	assert.Equal(t, "application/xml", ct.String())
	assert.Error(t, ct.Set("/"))
}

func TestClassify(t *testing.T) {
	testdata := []struct {
		code     int
		expected StatusClass
	}{
		{100, Success},
		{200, Success},
		{299, Success},
		{300, ClientError},
		{302, ClientError},
		{404, ClientError},
		{499, ClientError},
		{500, ServerError},
		{503, ServerError},
	}

	for _, d := range testdata {
		assert.Equal(t, d.expected, Classify(d.code), d.code)
	}

	assert.Equal(t, "client error", ClientError.String())
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "Date................", padRight("Date", 20, '.'))
	assert.Equal(t, strings.Repeat("x", 25), padRight(strings.Repeat("x", 25), 20, '.'))
	assert.Equal(t, "....", padRight("", 4, '.'))
}

func setNoColor(t *testing.T, v bool) {
	t.Helper()

	orig := color.NoColor
	color.NoColor = v

	t.Cleanup(func() { color.NoColor = orig })
}

func TestPrinter_Colored(t *testing.T) {
	setNoColor(t, false)

	buf := &bytes.Buffer{}
	p := newPrinter(buf, true)

	err := p.statusLine(&httpfs.Outcome{StatusCode: http.StatusOK, Reason: "OK", Proto: "HTTP/1.1"})
	require.NoError(t, err)

	// green status code
	assert.Contains(t, buf.String(), "\x1b[32m200 \x1b[0m")

	buf.Reset()
	p = newPrinter(buf, false)

	err = p.statusLine(&httpfs.Outcome{StatusCode: http.StatusBadGateway, Reason: "Bad Gateway", Proto: "HTTP/2.0"})
	require.NoError(t, err)
	assert.Equal(t, "HTTP/2.0 502 Bad Gateway\n", buf.String())
}

func TestNewOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewOutput(buf, true)
	assert.True(t, out.IsPiped())

	_, err := out.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", buf.String())
}

func TestPrinter_GlobalNoColorWins(t *testing.T) {
	setNoColor(t, true)

	buf := &bytes.Buffer{}
	p := newPrinter(buf, true)

	require.NoError(t, p.headers([]httpfs.HeaderField{{Name: "Server", Value: "x"}}))
	require.NoError(t, p.statusLine(&httpfs.Outcome{StatusCode: http.StatusOK, Reason: "OK", Proto: "HTTP/1.1"}))

	assert.Equal(t, "Server..............: x\nHTTP/1.1 200 OK\n", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")
}
