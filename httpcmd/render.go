package httpcmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/hairyhenderson/go-urlfs/httpfs"
)

// Output is where command results are written.
type Output interface {
	io.Writer

	// IsPiped reports whether the output feeds another program rather than
	// a terminal.
	IsPiped() bool
}

// NewOutput returns an Output writing to w.
func NewOutput(w io.Writer, piped bool) Output {
	return &output{Writer: w, piped: piped}
}

type output struct {
	io.Writer
	piped bool
}

func (o *output) IsPiped() bool {
	return o.piped
}

// StatusClass is the coarse meaning of a status code, for user feedback.
type StatusClass int

const (
	Success StatusClass = iota
	ClientError
	ServerError
)

func (c StatusClass) String() string {
	switch c {
	case Success:
		return "success"
	case ClientError:
		return "client error"
	default:
		return "server error"
	}
}

// Classify returns Success below 300, ClientError from 300 to 499, and
// ServerError from 500 up. Redirects count as client errors.
func Classify(code int) StatusClass {
	switch {
	case code < 300:
		return Success
	case code < 500:
		return ClientError
	default:
		return ServerError
	}
}

const headerWidth = 20

// printer renders response metadata, in color unless disabled.
type printer struct {
	w      io.Writer
	bold   *color.Color
	name   *color.Color
	value  *color.Color
	status map[StatusClass]*color.Color
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:     w,
		bold:  color.New(color.Bold),
		name:  color.New(color.FgCyan),
		value: color.New(color.FgWhite),
		status: map[StatusClass]*color.Color{
			Success:     color.New(color.FgGreen),
			ClientError: color.New(color.FgYellow),
			ServerError: color.New(color.FgRed),
		},
	}

	// color.NoColor is set for NO_COLOR and when stdout isn't a terminal; the
	// library skips resets while it is set, so it must win
	colored = colored && !color.NoColor

	for _, c := range p.colors() {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p *printer) colors() []*color.Color {
	return []*color.Color{
		p.bold, p.name, p.value,
		p.status[Success], p.status[ClientError], p.status[ServerError],
	}
}

// headers writes one line per header: the name right-padded with dots,
// then the value.
func (p *printer) headers(fields []httpfs.HeaderField) error {
	for _, h := range fields {
		if _, err := p.name.Fprint(p.w, padRight(h.Name, headerWidth, '.')+": "); err != nil {
			return err
		}

		if _, err := p.value.Fprint(p.w, h.Value); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(p.w); err != nil {
			return err
		}
	}

	return nil
}

// statusLine writes "<proto> <code> <reason>".
func (p *printer) statusLine(out *httpfs.Outcome) error {
	if _, err := p.bold.Fprint(p.w, out.Proto+" "); err != nil {
		return err
	}

	c := p.status[Classify(out.StatusCode)]
	if _, err := c.Fprint(p.w, strconv.Itoa(out.StatusCode)+" "); err != nil {
		return err
	}

	_, err := p.bold.Fprintln(p.w, out.Reason)

	return err
}

func padRight(s string, width int, pad rune) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(string(pad), n)
	}

	return s
}
