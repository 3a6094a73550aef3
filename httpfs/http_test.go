package httpfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hairyhenderson/go-urlfs"
	"github.com/hairyhenderson/go-urlfs/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHTTP(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/hello.txt", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("hello world"))
		}
	})

	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, tests.LinkPage(
			srv.URL+"/a/b",
			srv.URL+"/a/b",
			srv.URL+"/a",
			"http://elsewhere.example.com/a/c",
			srv.URL+"/ab",
			"/a/relative",
		))
	})

	mux.HandleFunc("/headers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
	})

	mux.HandleFunc("/moved", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
	})

	return srv
}

func TestNew(t *testing.T) {
	b, err := New(tests.MustURL("https://example.com"))
	require.NoError(t, err)
	assert.NotNil(t, b)

	_, err = New(tests.MustURL("ftp://example.com"))
	assert.Error(t, err)

	assert.Equal(t, []string{"http", "https"}, FS.Schemes())
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)
	b := NewBackend()

	ok, err := urlfs.NewNode(tests.MustURL(srv.URL+"/hello.txt"), b).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = urlfs.NewNode(tests.MustURL(srv.URL+"/missing"), b).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// 300 is still considered a positive answer
	ok, err = urlfs.NewNode(tests.MustURL(srv.URL+"/moved"), b).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := tests.MustURL(srv.URL + "/x")
	srv.Close()

	ok, err := urlfs.NewNode(u, NewBackend()).Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)
	b := NewBackend()

	ok, err := urlfs.NewNode(tests.MustURL(srv.URL+"/hello.txt"), b).Delete(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = urlfs.NewNode(tests.MustURL(srv.URL+"/missing"), b).Delete(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)
	b := NewBackend()

	f, err := urlfs.NewNode(tests.MustURL(srv.URL+"/hello.txt"), b).Open(ctx)
	require.NoError(t, err)

	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))

	_, err = urlfs.NewNode(tests.MustURL(srv.URL+"/missing"), b).Open(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, urlfs.ErrNotFound)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, http.MethodGet, he.Method)

	_, err = urlfs.NewNode(tests.MustURL(srv.URL+"/moved"), b).Open(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, urlfs.ErrNotFound)
}

func TestOpen_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := tests.MustURL(srv.URL + "/x")
	srv.Close()

	_, err := urlfs.NewNode(u, NewBackend()).Open(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, urlfs.ErrProtocol)
}

func TestListChildren(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)

	mux := urlfs.NewMux()
	mux.Add(FS)

	tree := urlfs.NewTree(mux, nil)

	n, err := tree.Lookup(srv.URL + "/a")
	require.NoError(t, err)

	children, err := n.ListChildren(ctx)
	require.NoError(t, err)

	// /ab literally extends the parent's URL string, so it is listed
	require.Len(t, children, 2)
	assert.Equal(t, srv.URL+"/a/b", children[0].String())
	assert.Equal(t, srv.URL+"/ab", children[1].String())
	assert.Equal(t, []string{"b", "ab"}, children.Names())

	parent, err := children[0].Parent()
	require.NoError(t, err)
	assert.True(t, parent.Equal(n))
}

func TestListChildren_SoftFailures(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)
	b := NewBackend()

	urls, err := b.ListChildren(ctx, urlfs.NewNode(tests.MustURL(srv.URL+"/missing"), b))
	require.NoError(t, err)
	assert.Empty(t, urls)

	urls, err = b.ListChildren(ctx, urlfs.NewNode(tests.MustURL(srv.URL+"/hello.txt"), b))
	require.NoError(t, err)
	assert.Empty(t, urls)

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	urls, err = b.ListChildren(ctx, urlfs.NewNode(tests.MustURL(closed.URL), b))
	require.NoError(t, err)
	assert.Empty(t, urls)
}

type transportFunc func(ctx context.Context, r *Request) (*Outcome, error)

func (f transportFunc) Do(ctx context.Context, r *Request) (*Outcome, error) {
	return f(ctx, r)
}

func TestProtocolErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	tr := transportFunc(func(context.Context, *Request) (*Outcome, error) {
		return nil, fmt.Errorf("%w: bad request", urlfs.ErrProtocol)
	})

	b := NewBackend(WithTransport(tr))
	n := urlfs.NewNode(tests.MustURL("http://example.com/a"), b)

	_, err := n.Exists(ctx)
	assert.ErrorIs(t, err, urlfs.ErrProtocol)

	_, err = n.Delete(ctx)
	assert.ErrorIs(t, err, urlfs.ErrProtocol)

	_, err = n.ListChildren(ctx)
	assert.ErrorIs(t, err, urlfs.ErrProtocol)

	_, err = n.Open(ctx)
	assert.ErrorIs(t, err, urlfs.ErrProtocol)
}

func TestBackendRequests(t *testing.T) {
	var got []*Request

	tr := transportFunc(func(_ context.Context, r *Request) (*Outcome, error) {
		got = append(got, r)

		return &Outcome{StatusCode: http.StatusOK}, nil
	})

	b := NewBackend(WithTransport(tr))
	n := urlfs.NewNode(tests.MustURL("http://example.com/a/"), b)

	_, _ = n.Exists(context.Background())
	_, _ = n.Delete(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, http.MethodHead, got[0].Method)
	assert.Equal(t, http.MethodDelete, got[1].Method)
	assert.Equal(t, "http://example.com/a/", got[0].URL.String())
	assert.Nil(t, got[0].Body)

	// no body means an empty reader rather than nil
	f, err := n.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.NoBody, f)
}

func TestWithHeader(t *testing.T) {
	ctx := context.Background()
	srv := setupHTTP(t)

	mux := urlfs.NewMux()
	mux.Add(FS)

	b, err := mux.Lookup(srv.URL)
	require.NoError(t, err)

	b = urlfs.WithHeader(http.Header{"User-Agent": []string{"urlfs-test"}}, b)

	f, err := urlfs.NewNode(tests.MustURL(srv.URL+"/headers"), b).Open(ctx)
	require.NoError(t, err)

	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "urlfs-test", string(body))
}

func TestProvider(t *testing.T) {
	calls := 0
	tr := transportFunc(func(context.Context, *Request) (*Outcome, error) {
		calls++

		return &Outcome{StatusCode: http.StatusNoContent}, nil
	})

	mux := urlfs.NewMux()
	mux.Add(Provider(tr))

	b, err := mux.Lookup("https://example.com")
	require.NoError(t, err)

	ok, err := urlfs.NewNode(tests.MustURL("https://example.com/x"), b).Delete(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}
