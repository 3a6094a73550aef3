package urlfs

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	"github.com/hairyhenderson/go-urlfs/internal/urlpath"
)

// Backend performs the I/O for nodes of one or more URL schemes.
//
// Implementations follow a three-way result convention: a successful call
// returns its value and a nil error; a transport failure on an advisory
// operation (Exists, Delete, ListChildren) returns the zero value and a nil
// error; a failure to even build the request returns an error wrapping
// [ErrProtocol]. Open returns every failure.
type Backend interface {
	// Exists reports whether the resource at n answers positively.
	Exists(ctx context.Context, n *Node) (bool, error)

	// Delete asks the server to remove n, reporting whether it accepted.
	Delete(ctx context.Context, n *Node) (bool, error)

	// Open returns the content of n. The caller must close it.
	Open(ctx context.Context, n *Node) (io.ReadCloser, error)

	// ListChildren returns the URLs of the resources discovered below n.
	ListChildren(ctx context.Context, n *Node) ([]*url.URL, error)
}

// Node is one URL, addressable as an element of a tree. Nodes are immutable:
// navigation always yields new nodes.
type Node struct {
	u       *url.URL
	backend Backend
	tree    *Tree
}

// NewNode returns a node for u bound to backend. Nodes created this way have
// no home, so ascending from the top of the path leads to the host's root.
// Use [Tree.Node] to get nodes that share a home.
func NewNode(u *url.URL, backend Backend) *Node {
	cp := *u

	return &Node{u: &cp, backend: backend}
}

// Name returns the last element of the node's path, or "/" for the root.
func (n *Node) Name() string {
	return urlpath.Base(n.u.Path)
}

// FullyQualifiedName returns the node's normalized path.
func (n *Node) FullyQualifiedName() string {
	return n.Path()
}

// Path returns the normalized path.
func (n *Node) Path() string {
	return urlpath.Normalize(n.u.Path)
}

// URL returns a copy of the URL the node addresses, exactly as it was given.
func (n *Node) URL() *url.URL {
	cp := *n.u

	return &cp
}

// Scheme returns the URL scheme.
func (n *Node) Scheme() string {
	return n.u.Scheme
}

// Host returns the host, including the port when one was given.
func (n *Node) Host() string {
	return n.u.Host
}

// Backend returns the backend the node is bound to.
func (n *Node) Backend() Backend {
	return n.backend
}

// String returns the full URL with its path normalized.
func (n *Node) String() string {
	cp := *n.u
	cp.Path = n.Path()
	cp.RawPath = ""

	return cp.String()
}

// Equal reports whether o addresses the same normalized URL as n.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}

	return n.String() == o.String()
}

// Child returns the node named name below n. If the resulting URL is
// malformed, the error wraps [ErrNotFound].
func (n *Node) Child(name string) (*Node, error) {
	u, err := n.withPath(urlpath.Join(n.u.Path, name))
	if err != nil {
		return nil, &fs.PathError{Op: "child", Path: name, Err: ErrNotFound}
	}

	return n.sibling(u), nil
}

// Parent returns the node above n. At the top of the path this is the home
// node of n's tree.
func (n *Node) Parent() (*Node, error) {
	p, ok := urlpath.Parent(n.u.Path)
	if !ok {
		return n.home()
	}

	u, err := n.withPath(p)
	if err != nil {
		return nil, &fs.PathError{Op: "parent", Path: n.Path(), Err: ErrNotFound}
	}

	return n.sibling(u), nil
}

// Exists - see [Backend]
func (n *Node) Exists(ctx context.Context) (bool, error) {
	return n.backend.Exists(ctx, n)
}

// Delete - see [Backend]
func (n *Node) Delete(ctx context.Context) (bool, error) {
	return n.backend.Delete(ctx, n)
}

// Open - see [Backend]
func (n *Node) Open(ctx context.Context) (io.ReadCloser, error) {
	return n.backend.Open(ctx, n)
}

// ListChildren returns the discovered children of n, sorted and without
// duplicates. Only URLs that literally extend n's URL are included.
func (n *Node) ListChildren(ctx context.Context) (Listing, error) {
	urls, err := n.backend.ListChildren(ctx, n)
	if err != nil {
		return nil, err
	}

	parent := n.u.String()
	self := n.String()
	seen := map[string]struct{}{}
	listing := make(Listing, 0, len(urls))

	for _, u := range urls {
		c := n.sibling(u)

		key := c.String()
		if key == self || !strings.HasPrefix(u.String(), parent) {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}

		listing = append(listing, c)
	}

	sort.Sort(listing)

	return listing, nil
}

// withPath builds scheme://host/p, dropping any query or fragment.
func (n *Node) withPath(p string) (*url.URL, error) {
	return url.Parse(n.u.Scheme + "://" + n.u.Host + p)
}

func (n *Node) sibling(u *url.URL) *Node {
	return &Node{u: u, backend: n.backend, tree: n.tree}
}

func (n *Node) home() (*Node, error) {
	if n.tree != nil && n.tree.home != nil {
		return n.tree.Home()
	}

	u, err := n.withPath("/")
	if err != nil {
		return nil, &fs.PathError{Op: "parent", Path: n.Path(), Err: ErrNotFound}
	}

	return n.sibling(u), nil
}

// Listing is a sorted set of child nodes.
type Listing []*Node

var _ sort.Interface = (Listing)(nil)

func (l Listing) Len() int           { return len(l) }
func (l Listing) Less(i, j int) bool { return l[i].String() < l[j].String() }
func (l Listing) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }

// Names returns the name of each node, in order.
func (l Listing) Names() []string {
	names := make([]string, len(l))
	for i, n := range l {
		names[i] = n.Name()
	}

	return names
}
