package urlfs

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"testing"

	"github.com/hairyhenderson/go-urlfs/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Names(t *testing.T) {
	testdata := []struct {
		u, name, fqn, str string
	}{
		{"http://h", "/", "/", "http://h/"},
		{"http://h/", "/", "/", "http://h/"},
		{"http://h/a", "a", "/a", "http://h/a"},
		{"http://h/a/", "a", "/a", "http://h/a"},
		{"http://h:8080/a/b.json", "b.json", "/a/b.json", "http://h:8080/a/b.json"},
		{"https://h/a/b/?q=1", "b", "/a/b", "https://h/a/b?q=1"},
	}

	for _, d := range testdata {
		n := NewNode(tests.MustURL(d.u), &stubBackend{})
		assert.Equal(t, d.name, n.Name(), d.u)
		assert.Equal(t, d.fqn, n.FullyQualifiedName(), d.u)
		assert.Equal(t, d.str, n.String(), d.u)
	}
}

func TestNode_URLIsCopied(t *testing.T) {
	u := tests.MustURL("http://h/a/")
	n := NewNode(u, &stubBackend{})

	u.Path = "/changed"
	assert.Equal(t, "/a", n.Path())

	n.URL().Path = "/changed"
	assert.Equal(t, "/a", n.Path())
	assert.Equal(t, "http://h/a/", n.URL().String())
}

func TestNode_Child(t *testing.T) {
	n := NewNode(tests.MustURL("http://h:81/a/"), &stubBackend{})

	c, err := n.Child("b")
	require.NoError(t, err)
	assert.Equal(t, "http://h:81/a/b", c.String())
	assert.Equal(t, "b", c.Name())
	assert.Same(t, n.Backend(), c.Backend())

	root := NewNode(tests.MustURL("http://h/"), &stubBackend{})
	c, err = root.Child("x")
	require.NoError(t, err)
	assert.Equal(t, "http://h/x", c.String())
}

func TestNode_Child_Malformed(t *testing.T) {
	n := NewNode(tests.MustURL("http://h/a"), &stubBackend{})

	c, err := n.Child("%zz")
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var perr *fs.PathError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "child", perr.Op)
}

func TestNode_ParentOfChild(t *testing.T) {
	for _, s := range []string{"http://h/a", "http://h/a/", "http://h/a/b/c", "https://h:8443/x/y/"} {
		n := NewNode(tests.MustURL(s), &stubBackend{})

		c, err := n.Child("x")
		require.NoError(t, err)

		p, err := c.Parent()
		require.NoError(t, err)
		assert.True(t, p.Equal(n), "parent(child(%s)) = %s", n, p)
	}
}

func TestNode_Parent_TopLevel(t *testing.T) {
	// without a tree, the top of the path ascends to the host root
	n := NewNode(tests.MustURL("http://h/a/"), &stubBackend{})

	p, err := n.Parent()
	require.NoError(t, err)
	assert.Equal(t, "http://h/", p.String())

	pp, err := p.Parent()
	require.NoError(t, err)
	assert.True(t, pp.Equal(p))
}

func TestNode_Equal(t *testing.T) {
	b := &stubBackend{}
	a1 := NewNode(tests.MustURL("http://h/a/"), b)
	a2 := NewNode(tests.MustURL("http://h/a"), b)
	other := NewNode(tests.MustURL("http://h/b"), b)

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(other))
	assert.False(t, a1.Equal(nil))

	var nilNode *Node
	assert.True(t, nilNode.Equal(nil))
}

func TestNode_ListChildren(t *testing.T) {
	ctx := context.Background()
	b := &stubBackend{children: []string{
		"http://h/a/z",
		"http://h/a/b",
		"http://h/a/b/",
		"http://h/a/b",
		"http://other/x",
		"http://h/a/",
		"http://h/ab",
	}}

	n := NewNode(tests.MustURL("http://h/a/"), b)

	l, err := n.ListChildren(ctx)
	require.NoError(t, err)

	strs := make([]string, len(l))
	for i, c := range l {
		strs[i] = c.String()
		assert.Same(t, b, c.Backend())
	}

	assert.Equal(t, []string{"http://h/a/b", "http://h/a/z"}, strs)
	assert.Equal(t, []string{"b", "z"}, l.Names())
}

func TestNode_ListChildren_LiteralPrefix(t *testing.T) {
	// the prefix is the URL exactly as the node was addressed
	b := &stubBackend{children: []string{"http://h/ab", "http://h/a/b"}}
	n := NewNode(tests.MustURL("http://h/a"), b)

	l, err := n.ListChildren(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "ab"}, []string{
		l[0].Path()[1:], l[1].Path()[1:],
	})
}

func TestNode_Delegates(t *testing.T) {
	ctx := context.Background()
	b := &stubBackend{exists: true}
	n := NewNode(&url.URL{Scheme: "http", Host: "h", Path: "/f"}, b)

	ok, err := n.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = n.Delete(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := n.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []string{"http://h/f"}, b.opened)
}
