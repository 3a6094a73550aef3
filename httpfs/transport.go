package httpfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hairyhenderson/go-urlfs"
	"github.com/hairyhenderson/go-urlfs/credentials"
	"github.com/hairyhenderson/go-urlfs/internal/logging"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport issues a single HTTP request and returns its outcome.
//
// Errors that wrap [urlfs.ErrProtocol] mean the request could not be built.
// Any other error is an I/O failure.
type Transport interface {
	Do(ctx context.Context, r *Request) (*Outcome, error)
}

// Request describes one request. Body, when set, may be read more than once:
// it is rewound before every attempt.
type Request struct {
	URL    *url.URL
	Header http.Header
	Body   io.ReadSeeker
	Method string
}

// HeaderField is one response header line.
type HeaderField struct {
	Name  string
	Value string
}

// Outcome is the result of a request.
type Outcome struct {
	// Body is nil when the response has no content. When non-nil it must be
	// closed, which Close does.
	Body io.ReadCloser

	// Location is the Location header resolved against the request URL, or
	// nil when absent or unparseable.
	Location *url.URL

	Reason string
	Proto  string

	// Header holds all header lines, sorted by name. Values of a repeated
	// header keep the order the server sent them in.
	Header []HeaderField

	StatusCode int
}

// Close closes the body, if any.
func (o *Outcome) Close() error {
	if o == nil || o.Body == nil {
		return nil
	}

	return o.Body.Close()
}

// Get returns the first value of the named header.
func (o *Outcome) Get(name string) string {
	name = http.CanonicalHeaderKey(name)

	for _, h := range o.Header {
		if h.Name == name {
			return h.Value
		}
	}

	return ""
}

// ClientTransport is a Transport backed by an [net/http.Client].
//
// Redirects are only followed for GET and HEAD. For other methods the
// redirect response itself is returned, so its Location can be acted on.
type ClientTransport struct {
	client  *http.Client
	creds   *credentials.Store
	log     logrus.FieldLogger
	headers http.Header
	otel    []otelhttp.Option
	timeout time.Duration
	retries int
	tracing bool
}

var _ Transport = (*ClientTransport)(nil)

// TransportOption configures a ClientTransport.
type TransportOption func(*ClientTransport)

// WithHTTPClient sets the base client. The default is a pooled client from
// go-cleanhttp.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *ClientTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithCredentials answers HTTP Basic challenges with credentials from s.
func WithCredentials(s *credentials.Store) TransportOption {
	return func(t *ClientTransport) {
		t.creds = s
	}
}

// WithRetries retries requests that fail with a connection error or a
// retryable status (5xx, 429) up to n more times.
func WithRetries(n int) TransportOption {
	return func(t *ClientTransport) {
		t.retries = n
	}
}

// WithTimeout limits the time taken by each request, including reading the
// body. Zero means no limit.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *ClientTransport) {
		t.timeout = d
	}
}

// WithInstrumentation records an OpenTelemetry client span for each request.
func WithInstrumentation(opts ...otelhttp.Option) TransportOption {
	return func(t *ClientTransport) {
		t.tracing = true
		t.otel = opts
	}
}

// WithDefaultHeader sets headers sent with every request, unless the request
// sets them itself.
func WithDefaultHeader(h http.Header) TransportOption {
	return func(t *ClientTransport) {
		for k, vs := range h {
			for _, v := range vs {
				t.headers.Add(k, v)
			}
		}
	}
}

// WithTransportLogger sets the logger.
func WithTransportLogger(l logrus.FieldLogger) TransportOption {
	return func(t *ClientTransport) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTransport returns a ClientTransport configured with opts.
func NewTransport(opts ...TransportOption) *ClientTransport {
	t := &ClientTransport{
		client:  cleanhttp.DefaultPooledClient(),
		log:     logging.Discard(),
		headers: http.Header{},
	}

	for _, opt := range opts {
		opt(t)
	}

	// never modify a client we were given
	c := *t.client
	c.CheckRedirect = followSafeRedirects

	if t.timeout > 0 {
		c.Timeout = t.timeout
	}

	if t.tracing {
		rt := c.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}

		c.Transport = otelhttp.NewTransport(rt, t.otel...)
	}

	if t.retries > 0 {
		// the retrying client needs its own copy: c is replaced by the
		// wrapper below
		inner := c

		rc := retryablehttp.NewClient()
		rc.HTTPClient = &inner
		rc.RetryMax = t.retries
		rc.Logger = logging.Leveled(t.log)
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

		c = *rc.StandardClient()
		c.CheckRedirect = followSafeRedirects
	}

	t.client = &c

	return t
}

func followSafeRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}

	switch via[0].Method {
	case http.MethodGet, http.MethodHead:
		return nil
	default:
		return http.ErrUseLastResponse
	}
}

// Do - implements Transport
func (t *ClientTransport) Do(ctx context.Context, r *Request) (*Outcome, error) {
	resp, err := t.send(ctx, r, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.creds != nil && r.URL.User == nil {
		realm, ok := basicRealm(resp.Header)
		if ok {
			discard(resp)

			scope := credentials.ScopeFor(r.URL, realm)

			cred, err := t.creds.Resolve(ctx, scope)
			if err != nil {
				return nil, fmt.Errorf("credentials for %s: %w", scope, err)
			}

			t.log.WithField("scope", scope.String()).Debug("retrying with basic auth")

			resp, err = t.send(ctx, r, &cred)
			if err != nil {
				return nil, err
			}
		}
	}

	return newOutcome(r.Method, resp), nil
}

func (t *ClientTransport) send(ctx context.Context, r *Request, cred *credentials.Credential) (*http.Response, error) {
	if r.URL == nil {
		return nil, fmt.Errorf("%w: request has no URL", urlfs.ErrProtocol)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", urlfs.ErrProtocol, err)
	}

	if r.Body != nil {
		if err := attachBody(req, r.Body); err != nil {
			return nil, err
		}
	}

	for k, vs := range t.headers {
		req.Header[k] = append([]string(nil), vs...)
	}

	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}

	if cred != nil {
		req.SetBasicAuth(cred.Username, cred.Secret)
	}

	t.log.WithFields(logrus.Fields{"method": r.Method, "url": r.URL.Redacted()}).Debug("sending request")

	return t.client.Do(req)
}

// attachBody sets body as the request body, with a known length and the
// ability to replay it on redirect or retry.
func attachBody(req *http.Request, body io.ReadSeeker) error {
	size, err := body.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("measure body: %w", err)
	}

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind body: %w", err)
	}

	req.ContentLength = size
	if size == 0 {
		req.Body = http.NoBody

		return nil
	}

	req.Body = io.NopCloser(body)
	req.GetBody = func() (io.ReadCloser, error) {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		return io.NopCloser(body), nil
	}

	return nil
}

func newOutcome(method string, resp *http.Response) *Outcome {
	// http.Header doesn't keep wire order, so headers are sorted by name
	o := &Outcome{
		StatusCode: resp.StatusCode,
		Reason:     reason(resp),
		Proto:      resp.Proto,
		Header:     orderedHeader(resp.Header),
	}

	if loc, err := resp.Location(); err == nil {
		o.Location = loc
	}

	if hasBody(method, resp) {
		o.Body = resp.Body
	} else {
		discard(resp)
	}

	return o
}

func reason(resp *http.Response) string {
	r := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if r == "" {
		r = http.StatusText(resp.StatusCode)
	}

	return r
}

func hasBody(method string, resp *http.Response) bool {
	if method == http.MethodHead || resp.ContentLength == 0 {
		return false
	}

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotModified:
		return false
	}

	return resp.StatusCode >= 200
}

func orderedHeader(h http.Header) []HeaderField {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}

	sort.Strings(names)

	fields := make([]HeaderField, 0, len(h))

	for _, k := range names {
		for _, v := range h[k] {
			fields = append(fields, HeaderField{Name: k, Value: v})
		}
	}

	return fields
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
