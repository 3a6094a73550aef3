package httpfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hairyhenderson/go-urlfs"
	"github.com/hairyhenderson/go-urlfs/internal/logging"
	"github.com/sirupsen/logrus"
)

type httpBackend struct {
	transport Transport
	log       logrus.FieldLogger
	headers   http.Header
}

// Option configures the backend.
type Option func(*httpBackend)

// WithTransport sets the transport requests are sent through. The default is
// a ClientTransport with no credentials.
func WithTransport(t Transport) Option {
	return func(b *httpBackend) {
		if t != nil {
			b.transport = t
		}
	}
}

// WithLogger sets the logger soft failures are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *httpBackend) {
		if l != nil {
			b.log = l
		}
	}
}

// New provides a backend for HTTP (or HTTPS) URLs, suitable for registering
// in a urlfs.BackendMux. The backend is not tied to u: it serves any node of
// the same scheme. Existence checks are made with HEAD, deletes with DELETE,
// and reads and listings with GET.
func New(u *url.URL) (urlfs.Backend, error) {
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return NewBackend(), nil
}

// NewBackend returns a backend configured with opts.
func NewBackend(opts ...Option) urlfs.Backend {
	b := &httpBackend{
		log:     logging.Discard(),
		headers: http.Header{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.transport == nil {
		b.transport = NewTransport(WithTransportLogger(b.log))
	}

	return b
}

// FS is used to register this backend with a urlfs.BackendMux
//
//nolint:gochecknoglobals
var FS = urlfs.BackendProviderFunc(New, "http", "https")

// Provider returns a BackendProvider for the http and https schemes whose
// backends send requests through t.
func Provider(t Transport, opts ...Option) urlfs.BackendProvider {
	opts = append([]Option{WithTransport(t)}, opts...)

	return urlfs.BackendProviderFunc(func(u *url.URL) (urlfs.Backend, error) {
		if _, err := New(u); err != nil {
			return nil, err
		}

		return NewBackend(opts...), nil
	}, "http", "https")
}

var _ urlfs.Backend = (*httpBackend)(nil)

func (b *httpBackend) WithHeader(headers http.Header) urlfs.Backend {
	if headers == nil {
		return b
	}

	cp := *b
	cp.headers = b.headers.Clone()

	for k, vs := range headers {
		for _, v := range vs {
			cp.headers.Add(k, v)
		}
	}

	return &cp
}

// Exists - implements urlfs.Backend
func (b *httpBackend) Exists(ctx context.Context, n *urlfs.Node) (bool, error) {
	return b.check(ctx, http.MethodHead, n)
}

// Delete - implements urlfs.Backend
func (b *httpBackend) Delete(ctx context.Context, n *urlfs.Node) (bool, error) {
	return b.check(ctx, http.MethodDelete, n)
}

// check answers whether method on n is accepted with a status of at most 300.
func (b *httpBackend) check(ctx context.Context, method string, n *urlfs.Node) (bool, error) {
	out, err := b.do(ctx, method, n)
	if err != nil {
		return false, b.soften(method, n, err)
	}

	defer out.Close()

	return out.StatusCode <= http.StatusMultipleChoices, nil
}

// Open - implements urlfs.Backend
func (b *httpBackend) Open(ctx context.Context, n *urlfs.Node) (io.ReadCloser, error) {
	out, err := b.do(ctx, http.MethodGet, n)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", n, err)
	}

	if out.StatusCode >= http.StatusMultipleChoices {
		out.Close()

		return nil, httpError(http.MethodGet, out.StatusCode)
	}

	if out.Body == nil {
		return http.NoBody, nil
	}

	// The body must be closed by the caller
	return out.Body, nil
}

// ListChildren - implements urlfs.Backend
func (b *httpBackend) ListChildren(ctx context.Context, n *urlfs.Node) ([]*url.URL, error) {
	out, err := b.do(ctx, http.MethodGet, n)
	if err != nil {
		return nil, b.soften("list", n, err)
	}

	defer out.Close()

	if out.StatusCode >= http.StatusMultipleChoices || out.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(out.Body)
	if err != nil {
		b.log.WithError(err).WithField("url", n.String()).Debug("reading listing failed")

		return nil, nil
	}

	parent := n.URL().String()
	children := []*url.URL{}

	for _, link := range ScrapeLinks(body) {
		if link == parent || !strings.HasPrefix(link, parent) {
			continue
		}

		u, err := url.Parse(link)
		if err != nil {
			continue
		}

		children = append(children, u)
	}

	return children, nil
}

func (b *httpBackend) do(ctx context.Context, method string, n *urlfs.Node) (*Outcome, error) {
	return b.transport.Do(ctx, &Request{
		Method: method,
		URL:    n.URL(),
		Header: b.headers.Clone(),
	})
}

// soften turns transport failures into a nil error, keeping only protocol
// errors.
func (b *httpBackend) soften(op string, n *urlfs.Node, err error) error {
	if errors.Is(err, urlfs.ErrProtocol) {
		return fmt.Errorf("%s %s: %w", strings.ToLower(op), n, err)
	}

	b.log.WithError(err).WithFields(logrus.Fields{"op": op, "url": n.String()}).
		Debug("request failed")

	return nil
}

// httpError represents an HTTP error with its status code
func httpError(method string, statusCode int) error {
	return &HTTPError{
		Method:     method,
		StatusCode: statusCode,
	}
}

// HTTPError is returned by Open when the server answers with a status that
// is not a success.
type HTTPError struct {
	Method     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %s failed with status %d", e.Method, e.StatusCode)
}

// Is reports 404 and 410 responses as urlfs.ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	return target == urlfs.ErrNotFound &&
		(e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone)
}
