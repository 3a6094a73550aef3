// Package tracefs instruments a backend for distributed tracing operations.
// The OpenTelemetry API is supported.
//
// This is not strictly a backend implementation, but rather a wrapper around
// an existing backend. Use [Provider] to instrument every backend a
// [urlfs.BackendMux] hands out.
//
// # Usage
//
// To use this backend, call [New] with a base backend. All operations on the
// returned backend will be instrumented, including reads from the content
// returned by Open.
//
//	mux := urlfs.NewMux()
//	mux.Add(tracefs.Provider(httpfs.FS))
//
// In order to report traces, an OTel [trace.TracerProvider] must first be set
// up. The details of this are outside the scope of this module, but see the
// urlsh example in this repository's examples directory for one approach.
//
// A [trace.TracerProvider] can optionally be passed to [New] using
// [WithTracerProvider].
package tracefs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hairyhenderson/go-urlfs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type traceBackend struct {
	backend urlfs.Backend
	tracer  trace.Tracer
}

const tracerName = "github.com/hairyhenderson/go-urlfs/tracefs"

// New returns a backend that instruments the given backend, adding trace
// spans for each operation. Spans are children of the span in the context
// passed to each operation. Options can be provided to configure the
// behaviour of the instrumented backend.
func New(b urlfs.Backend, opts ...Option) urlfs.Backend {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	return &traceBackend{
		backend: b,
		tracer:  cfg.tp.Tracer(tracerName),
	}
}

// Provider wraps p so that every backend it provides is instrumented.
func Provider(p urlfs.BackendProvider, opts ...Option) urlfs.BackendProvider {
	return urlfs.BackendProviderFunc(func(u *url.URL) (urlfs.Backend, error) {
		b, err := p.New(u)
		if err != nil {
			return nil, err
		}

		return New(b, opts...), nil
	}, p.Schemes()...)
}

var _ urlfs.Backend = (*traceBackend)(nil)

// Unwrap returns the instrumented backend.
func (b *traceBackend) Unwrap() urlfs.Backend {
	return b.backend
}

// WithHeader passes headers on to the instrumented backend, keeping the
// instrumentation.
func (b *traceBackend) WithHeader(headers http.Header) urlfs.Backend {
	return &traceBackend{
		backend: urlfs.WithHeader(headers, b.backend),
		tracer:  b.tracer,
	}
}

func (b *traceBackend) attribs(n *urlfs.Node) trace.SpanStartEventOption {
	return trace.WithAttributes(
		URL(n.String()),
		Path(n.Path()),
		Scheme(n.Scheme()),
		Type(fmt.Sprintf("%T", b.backend)),
	)
}

func (b *traceBackend) Exists(ctx context.Context, n *urlfs.Node) (bool, error) {
	ctx, span := b.tracer.Start(ctx, "backend.Exists", b.attribs(n))
	defer span.End()

	ok, err := b.backend.Exists(ctx, n)

	span.SetAttributes(Exists(ok))

	return ok, recordError(span, err)
}

func (b *traceBackend) Delete(ctx context.Context, n *urlfs.Node) (bool, error) {
	ctx, span := b.tracer.Start(ctx, "backend.Delete", b.attribs(n))
	defer span.End()

	ok, err := b.backend.Delete(ctx, n)

	span.SetAttributes(Deleted(ok))

	return ok, recordError(span, err)
}

func (b *traceBackend) Open(ctx context.Context, n *urlfs.Node) (io.ReadCloser, error) {
	ctx, span := b.tracer.Start(ctx, "backend.Open", b.attribs(n))
	defer span.End()

	rc, err := b.backend.Open(ctx, n)
	if err != nil {
		return rc, recordError(span, err)
	}

	return &traceContent{rc: rc, ctx: ctx, node: n, backend: b}, nil
}

func (b *traceBackend) ListChildren(ctx context.Context, n *urlfs.Node) ([]*url.URL, error) {
	ctx, span := b.tracer.Start(ctx, "backend.ListChildren", b.attribs(n))
	defer span.End()

	urls, err := b.backend.ListChildren(ctx, n)

	span.SetAttributes(Children(len(urls)))

	return urls, recordError(span, err)
}

// traceContent instruments the content returned by Open.
type traceContent struct {
	rc      io.ReadCloser
	ctx     context.Context
	node    *urlfs.Node
	backend *traceBackend
}

func (c *traceContent) Read(p []byte) (int, error) {
	_, span := c.backend.tracer.Start(c.ctx, "content.Read", c.backend.attribs(c.node))
	defer span.End()

	n, err := c.rc.Read(p)

	span.SetAttributes(BytesRead(n))

	if err == io.EOF {
		return n, err
	}

	return n, recordError(span, err)
}

func (c *traceContent) Close() error {
	_, span := c.backend.tracer.Start(c.ctx, "content.Close", c.backend.attribs(c.node))
	defer span.End()

	return recordError(span, c.rc.Close())
}

// recordError records the given error on the span, and returns it. It does not
// set the span's status to error.
func recordError(span trace.Span, err error) error {
	span.RecordError(err)

	return err
}
