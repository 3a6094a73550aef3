// Package httpfs provides a [urlfs.Backend] for HTTP and HTTPS URLs.
//
// # Usage
//
// Register the backend with a [urlfs.BackendMux] and look up nodes through a
// [urlfs.Tree]:
//
//	mux := urlfs.NewMux()
//	mux.Add(httpfs.FS)
//
//	tree := urlfs.NewTree(mux, nil)
//	node, _ := tree.Lookup("https://example.com/docs/")
//
// Existence checks use HEAD, deletes use DELETE, and reads use GET. A resource
// exists (or was deleted) when the server answers with a status code of 300
// or lower. Transport failures during these checks are reported as "no", not
// as errors.
//
// # Listing children
//
// HTTP has no directory listings, so children are discovered by fetching the
// resource and scanning the body for absolute http(s) URLs in single or
// double quotes. Only URLs that literally start with the parent's URL are
// kept. Relative links, and links that differ from the parent only by letter
// case, are not found. This is a heuristic, not an HTML parser.
//
// # Transport
//
// All requests go through a [Transport]. The default, [ClientTransport],
// wraps an [net/http.Client] and can answer HTTP Basic challenges from a
// [credentials.Store], retry failed requests, and record OpenTelemetry spans.
// To use your own, see [WithTransport] and [Provider]:
//
//	tr := httpfs.NewTransport(httpfs.WithCredentials(store), httpfs.WithRetries(3))
//	mux.Add(httpfs.Provider(tr))
//
// # Adding custom HTTP headers
//
// This backend supports default HTTP headers with the [urlfs.WithHeader]
// extension, for example to set a user-agent:
//
//	b = urlfs.WithHeader(http.Header{"User-Agent": []string{"my-app"}}, b)
package httpfs
