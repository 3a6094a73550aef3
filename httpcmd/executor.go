package httpcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hairyhenderson/go-urlfs"
	"github.com/hairyhenderson/go-urlfs/httpfs"
	"github.com/hairyhenderson/go-urlfs/internal/logging"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingInput is returned when an upload has no piped content. No
	// request is made.
	ErrMissingInput = errors.New("requires a pipe in content")

	// ErrMissingContentType is returned when an upload has no content type.
	ErrMissingContentType = errors.New("content type is required")
)

// Executor runs HTTP commands against nodes.
type Executor struct {
	transport httpfs.Transport
	tree      *urlfs.Tree
	log       logrus.FieldLogger
	pickup    func(*urlfs.Node)
	tempDir   string
	noColor   bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTempDir sets where upload bodies are buffered. The default is
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(e *Executor) {
		e.tempDir = dir
	}
}

// WithPickup registers f to be called with the node named by an upload
// response's Location header.
func WithPickup(f func(*urlfs.Node)) Option {
	return func(e *Executor) {
		e.pickup = f
	}
}

// WithoutColor disables colored status and header output.
func WithoutColor() Option {
	return func(e *Executor) {
		e.noColor = true
	}
}

// New returns an Executor sending requests through t. Nodes picked up from
// Location headers are created in tree.
func New(t httpfs.Transport, tree *urlfs.Tree, opts ...Option) *Executor {
	e := &Executor{
		transport: t,
		tree:      tree,
		log:       logging.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RenderOptions configures Render.
type RenderOptions struct {
	// Accept, when set, is sent as the Accept header.
	Accept ContentType

	// ShowAll prints the response headers and status line before the body.
	ShowAll bool
}

// Render fetches n and writes its content to out. The body is written
// whatever the status. When the response has a body, even an empty one, a
// trailing newline follows it unless out is piped.
func (e *Executor) Render(ctx context.Context, n *urlfs.Node, out Output, opts RenderOptions) error {
	log := e.logger(http.MethodGet, n)

	req := &httpfs.Request{
		Method: http.MethodGet,
		URL:    n.URL(),
		Header: http.Header{},
	}

	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept.String())
	}

	res, err := e.transport.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("get %s: %w", n, err)
	}

	defer res.Close()

	log.WithField("status", res.StatusCode).Debug("response received")

	if opts.ShowAll {
		if err := e.printMeta(out, res); err != nil {
			return err
		}
	}

	if res.Body == nil {
		return nil
	}

	if _, err := io.Copy(out, res.Body); err != nil {
		return fmt.Errorf("get %s: %w", n, err)
	}

	if out.IsPiped() {
		return nil
	}

	_, err = fmt.Fprintln(out)

	return err
}

// UploadOptions configures Post and Put.
type UploadOptions struct {
	// ContentType is sent as the Content-Type header. It is required.
	ContentType ContentType

	// Accept, when set, is sent as the Accept header.
	Accept ContentType

	// Include prints the response headers and status line before the body.
	Include bool
}

// Post sends the content of in to n with POST. See Put.
func (e *Executor) Post(ctx context.Context, n *urlfs.Node, in io.Reader, out Output, opts UploadOptions) (*urlfs.Node, error) {
	return e.upload(ctx, http.MethodPost, n, in, out, opts)
}

// Put sends the content of in to n with PUT. The input is buffered to a
// temporary file first, which is removed before Put returns. The response
// body is copied to out verbatim.
//
// When the response has a Location header, the node it names is returned
// (and passed to the pickup callback, if any). Otherwise the returned node
// is nil.
func (e *Executor) Put(ctx context.Context, n *urlfs.Node, in io.Reader, out Output, opts UploadOptions) (*urlfs.Node, error) {
	return e.upload(ctx, http.MethodPut, n, in, out, opts)
}

// Delete asks the server to remove n. See [urlfs.Node.Delete].
func (e *Executor) Delete(ctx context.Context, n *urlfs.Node) (bool, error) {
	log := e.logger(http.MethodDelete, n)

	ok, err := n.Delete(ctx)

	log.WithField("deleted", ok).Debug("delete finished")

	return ok, err
}

func (e *Executor) upload(ctx context.Context, method string, n *urlfs.Node, in io.Reader, out Output, opts UploadOptions) (*urlfs.Node, error) {
	verb := strings.ToLower(method)

	if in == nil {
		return nil, fmt.Errorf("%s command %w", verb, ErrMissingInput)
	}

	if opts.ContentType == "" {
		return nil, fmt.Errorf("%s command: %w", verb, ErrMissingContentType)
	}

	log := e.logger(method, n)

	body, err := e.buffer(in, log)
	if err != nil {
		return nil, fmt.Errorf("%s command: buffer input: %w", verb, err)
	}

	defer body.release()

	if body.size == 0 {
		return nil, fmt.Errorf("%s command %w", verb, ErrMissingInput)
	}

	req := &httpfs.Request{
		Method: method,
		URL:    n.URL(),
		Header: http.Header{"Content-Type": {opts.ContentType.String()}},
		Body:   body.f,
	}

	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept.String())
	}

	log.WithField("size", body.size).Debug("sending upload")

	res, err := e.transport.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, n, err)
	}

	defer res.Close()

	log.WithField("status", res.StatusCode).Debug("response received")

	if opts.Include {
		if err := e.printMeta(out, res); err != nil {
			return nil, err
		}
	}

	if res.Body != nil {
		if _, err := io.Copy(out, res.Body); err != nil {
			return nil, fmt.Errorf("%s %s: %w", verb, n, err)
		}
	}

	if res.Location == nil {
		return nil, nil
	}

	next, err := e.node(res.Location, n)
	if err != nil {
		return nil, fmt.Errorf("pick up %s: %w", res.Location.Redacted(), err)
	}

	log.WithField("location", next.String()).Debug("picked up resource")

	if e.pickup != nil {
		e.pickup(next)
	}

	return next, nil
}

func (e *Executor) node(loc *url.URL, from *urlfs.Node) (*urlfs.Node, error) {
	if e.tree != nil {
		return e.tree.Node(loc)
	}

	return urlfs.NewNode(loc, from.Backend()), nil
}

func (e *Executor) printMeta(out Output, res *httpfs.Outcome) error {
	p := newPrinter(out, !e.noColor && !out.IsPiped())

	if err := p.headers(res.Header); err != nil {
		return err
	}

	return p.statusLine(res)
}

func (e *Executor) logger(method string, n *urlfs.Node) logrus.FieldLogger {
	return e.log.WithFields(logrus.Fields{
		"cmd_id": uuid.NewString(),
		"method": method,
		"url":    n.String(),
	})
}

// pendingBody is piped input buffered to a temporary file.
type pendingBody struct {
	f    *os.File
	log  logrus.FieldLogger
	size int64
}

func (e *Executor) buffer(in io.Reader, log logrus.FieldLogger) (*pendingBody, error) {
	f, err := os.CreateTemp(e.tempDir, "urlfs-*.pipein")
	if err != nil {
		return nil, err
	}

	b := &pendingBody{f: f, log: log}

	b.size, err = io.Copy(f, in)
	if err != nil {
		b.release()

		return nil, err
	}

	if c, ok := in.(io.Closer); ok {
		_ = c.Close()
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		b.release()

		return nil, err
	}

	return b, nil
}

// release closes and removes the file.
func (b *pendingBody) release() {
	name := b.f.Name()

	if err := b.f.Close(); err != nil {
		b.log.WithError(err).Warn("closing pending body failed")
	}

	if err := os.Remove(name); err != nil {
		b.log.WithError(err).WithField("file", name).Warn("removing pending body failed")
	}
}
