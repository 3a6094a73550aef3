// Package urlfs lets a URL be treated as a node in a navigable tree of
// resources. A [Node] knows its name, its parent and how to build its children
// purely from URL path semantics, and delegates all I/O (existence checks,
// deletion, reads and child discovery) to a [Backend] chosen by URL scheme.
//
// # Usage
//
// Register backend providers with a [BackendMux], then build nodes through a
// [Tree]:
//
//	mux := urlfs.NewMux()
//	mux.Add(httpfs.FS)
//
//	tree := urlfs.NewTree(mux, nil)
//	node, err := tree.Lookup("https://example.com/docs/")
//
// Navigation never mutates a node: [Node.Child] and [Node.Parent] return new
// nodes. Ascending from the top of a URL path leads to the tree's home node,
// not to "/".
//
// # Errors
//
// Advisory operations ([Node.Exists], [Node.Delete], [Node.ListChildren])
// report transport failures as a negative result rather than an error, so
// navigation keeps working against a partially unavailable server. They only
// return an error wrapping [ErrProtocol] when a request can't be built at all.
// [Node.Open] propagates every failure.
package urlfs
