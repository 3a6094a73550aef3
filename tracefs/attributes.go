package tracefs

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey   = attribute.Key("backend.type")
	urlKey    = attribute.Key("node.url")
	pathKey   = attribute.Key("node.path")
	schemeKey = attribute.Key("node.scheme")

	existsKey   = attribute.Key("node.exists")
	deletedKey  = attribute.Key("node.deleted")
	childrenKey = attribute.Key("node.children")

	bytesReadKey = attribute.Key("content.bytes_read")
)

// The type of backend being operated on.
//
// Type: string
// Required: No
// Examples: "*httpfs.httpBackend"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The full URL of the node being operated on, with its path normalized.
//
// Type: string
// Required: Yes
// Examples: "https://example.com/docs", "http://localhost:8080/"
func URL(u string) attribute.KeyValue {
	return urlKey.String(u)
}

// The normalized path of the node.
//
// Type: string
// Required: Yes
// Examples: "/", "/docs/intro"
func Path(p string) attribute.KeyValue {
	return pathKey.String(p)
}

// The URL scheme of the node.
//
// Type: string
// Required: No
// Examples: "http", "https"
func Scheme(s string) attribute.KeyValue {
	return schemeKey.String(s)
}

// Whether the node exists, as answered by Exists.
//
// Type: bool
// Required: No
func Exists(b bool) attribute.KeyValue {
	return existsKey.Bool(b)
}

// Whether the server accepted a Delete.
//
// Type: bool
// Required: No
func Deleted(b bool) attribute.KeyValue {
	return deletedKey.Bool(b)
}

// The number of children found by ListChildren.
//
// Type: int
// Required: No
// Examples: 3, 0
func Children(n int) attribute.KeyValue {
	return childrenKey.Int(n)
}

// The number of bytes read from a node's content during a Read operation.
//
// Type: int
// Required: No
// Examples: 1024, 0
func BytesRead(n int) attribute.KeyValue {
	return bytesReadKey.Int(n)
}
