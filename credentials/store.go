package credentials

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/hairyhenderson/go-urlfs/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Scope identifies which credential applies to a request: the host, the port,
// and the realm named in the server's challenge.
type Scope struct {
	Host  string
	Port  string
	Realm string
}

// ScopeFor returns the scope for u and realm. The port defaults to the
// scheme's well-known port.
func ScopeFor(u *url.URL, realm string) Scope {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	return Scope{Host: u.Hostname(), Port: port, Realm: realm}
}

func (s Scope) String() string {
	return fmt.Sprintf("<%s>@%s", s.Realm, net.JoinHostPort(s.Host, s.Port))
}

// Credential is a username and secret for one scope.
type Credential struct {
	Scope    Scope
	Username string
	Secret   string
}

// Prompter asks the user for input.
type Prompter interface {
	// Prompt asks for a line of visible input.
	Prompt(label string) (string, error)

	// PromptSecret asks for input that must not be echoed.
	PromptSecret(label string) (string, error)
}

// Noticer is optionally implemented by a Prompter to show a message before
// prompting starts.
type Noticer interface {
	Notice(msg string)
}

// ErrNoPrompter is returned when a scope has no cached credential and the
// store can't ask for one.
var ErrNoPrompter = errors.New("no credentials available and no prompter configured")

// Store caches credentials per scope. The first caller to resolve a scope
// prompts; concurrent callers for the same scope wait and share the answer.
// A Store is safe for concurrent use.
type Store struct {
	prompter Prompter
	log      logrus.FieldLogger

	mu       sync.Mutex
	cache    map[Scope]Credential
	fallback *Credential

	group singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for cache and prompt events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore returns an empty Store that asks p for missing credentials. p may
// be nil, in which case only seeded credentials can be resolved.
func NewStore(p Prompter, opts ...Option) *Store {
	s := &Store{
		prompter: p,
		log:      logging.Discard(),
		cache:    map[Scope]Credential{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Resolve returns the credential for scope, prompting on first use.
func (s *Store) Resolve(ctx context.Context, scope Scope) (Credential, error) {
	if c, ok := s.cached(scope); ok {
		s.log.WithField("scope", scope.String()).Debug("using cached credentials")

		return c, nil
	}

	ch := s.group.DoChan(scope.String(), func() (interface{}, error) {
		// another caller may have finished prompting for this scope
		// between our cache check and this call
		if c, ok := s.cached(scope); ok {
			return c, nil
		}

		c, err := s.prompt(scope)
		if err != nil {
			return Credential{}, err
		}

		s.mu.Lock()
		s.cache[scope] = c
		s.mu.Unlock()

		return c, nil
	})

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}

		return res.Val.(Credential), nil
	}
}

// Set stores c for its scope, replacing any cached value.
func (s *Store) Set(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[c.Scope] = c
}

// SetFallback sets a credential used for every scope that has no cached
// entry. The returned credentials carry the requested scope.
func (s *Store) SetFallback(username, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = &Credential{Username: username, Secret: secret}
}

func (s *Store) cached(scope Scope) (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[scope]; ok {
		return c, true
	}

	if s.fallback != nil {
		c := *s.fallback
		c.Scope = scope

		return c, true
	}

	return Credential{}, false
}

func (s *Store) prompt(scope Scope) (Credential, error) {
	if s.prompter == nil {
		return Credential{}, fmt.Errorf("%s: %w", scope, ErrNoPrompter)
	}

	s.log.WithField("scope", scope.String()).Debug("prompting for credentials")

	if n, ok := s.prompter.(Noticer); ok {
		n.Notice("Please enter HTTP Credentials for: " + scope.String())
	}

	username, err := s.prompter.Prompt("Username")
	if err != nil {
		return Credential{}, fmt.Errorf("prompt username: %w", err)
	}

	secret, err := s.prompter.PromptSecret("Password")
	if err != nil {
		return Credential{}, fmt.Errorf("prompt password: %w", err)
	}

	return Credential{Scope: scope, Username: username, Secret: secret}, nil
}
