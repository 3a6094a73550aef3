package urlfs

import (
	"fmt"
	"net/url"
	"sync"
)

// Tree creates nodes that share backends and a home node. Backends are looked
// up in the mux by URL scheme the first time a scheme is seen, and reused for
// every later node of that scheme.
type Tree struct {
	mux  BackendProvider
	home *url.URL

	mu       sync.Mutex
	backends map[string]Backend

	homeNode func() (*Node, error)
}

// NewTree returns a Tree resolving backends through p. When home is non-nil,
// ascending from the top of any node's path leads to the node for home;
// otherwise it leads to the root of the node's own host.
func NewTree(p BackendProvider, home *url.URL) *Tree {
	t := &Tree{mux: p, home: home, backends: map[string]Backend{}}
	t.homeNode = sync.OnceValues(func() (*Node, error) {
		return t.Node(t.home)
	})

	return t
}

// Lookup parses rawURL and returns its node.
func (t *Tree) Lookup(rawURL string) (*Node, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", rawURL, err)
	}

	return t.Node(u)
}

// Node returns the node for u, bound to the backend registered for u's
// scheme.
func (t *Tree) Node(u *url.URL) (*Node, error) {
	if u == nil {
		return nil, fmt.Errorf("nil URL")
	}

	b, err := t.backend(u)
	if err != nil {
		return nil, err
	}

	cp := *u

	return &Node{u: &cp, backend: b, tree: t}, nil
}

// Home returns the configured home node. It is built once and cached.
func (t *Tree) Home() (*Node, error) {
	if t.home == nil {
		return nil, fmt.Errorf("no home configured")
	}

	return t.homeNode()
}

func (t *Tree) backend(u *url.URL) (Backend, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.backends[u.Scheme]; ok {
		return b, nil
	}

	b, err := t.mux.New(u)
	if err != nil {
		return nil, err
	}

	t.backends[u.Scheme] = b

	return b, nil
}
