package urlfs

import (
	"fmt"
	"net/url"
	"sort"
)

// BackendMux allows you to dynamically look up a registered backend for a
// given URL. Additional backends can be registered given an implementation of
// BackendProvider.
// BackendMux is itself a BackendProvider, which provides the superset of all
// registered backends.
type BackendMux map[string]func(*url.URL) (Backend, error)

var _ BackendProvider = (BackendMux)(nil)

// NewMux returns a BackendMux ready for use.
func NewMux() BackendMux {
	return BackendMux(map[string]func(*url.URL) (Backend, error){})
}

// Add registers the given backend provider for its supported URL schemes. If
// any of its schemes are already registered, they will be overridden.
func (m BackendMux) Add(p BackendProvider) {
	for _, scheme := range p.Schemes() {
		m[scheme] = p.New
	}
}

// Lookup returns an appropriate backend for the given URL. Use Add to
// register providers.
func (m BackendMux) Lookup(u string) (Backend, error) {
	base, err := url.Parse(u)
	if err != nil {
		return nil, err
	}

	return m.New(base)
}

// Schemes - implements BackendProvider
func (m BackendMux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// New - implements BackendProvider
func (m BackendMux) New(u *url.URL) (Backend, error) {
	f, ok := m[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("no backend registered for scheme %q", u.Scheme)
	}

	return f(u)
}

// BackendProvider provides a backend for a set of defined schemes
type BackendProvider interface {
	// Schemes returns the valid URL schemes for this backend
	Schemes() []string

	// New returns a backend for the given URL
	New(u *url.URL) (Backend, error)
}

// BackendProviderFunc -
func BackendProviderFunc(f func(*url.URL) (Backend, error), schemes ...string) BackendProvider {
	return bp{f, schemes}
}

type bp struct {
	newFunc func(*url.URL) (Backend, error)
	schemes []string
}

func (p bp) Schemes() []string {
	return p.schemes
}

func (p bp) New(u *url.URL) (Backend, error) {
	return p.newFunc(u)
}
