package credentials

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPrompter(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewTerminalPrompter(strings.NewReader("alice\r\nhunter2"), out)

	u, err := p.Prompt("Username")
	require.NoError(t, err)
	assert.Equal(t, "alice", u)

	// input is not a terminal, so the secret is read as a plain line
	s, err := p.PromptSecret("Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", s)

	_, err = p.Prompt("More")
	assert.Error(t, err)

	assert.Equal(t, "Username: Password: More: ", out.String())
}

func TestStore_WithTerminalPrompter(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewStore(NewTerminalPrompter(strings.NewReader("alice\npw\n"), out))

	c, err := s.Resolve(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, "pw", c.Secret)
	assert.Equal(t, "Please enter HTTP Credentials for: <api>@example.com:443\nUsername: Password: ", out.String())
}

func TestFromEnv(t *testing.T) {
	fsys := fstest.MapFS{"run/secrets/pw": &fstest.MapFile{Data: []byte("from-file\n")}}

	s := NewStore(nil)
	assert.False(t, fromEnvFS(fsys, s))

	t.Setenv("URLFS_HTTP_USERNAME", "ci")
	t.Setenv("URLFS_HTTP_PASSWORD_FILE", "/run/secrets/pw")
	assert.True(t, fromEnvFS(fsys, s))

	c, err := s.Resolve(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "ci", c.Username)
	assert.Equal(t, "from-file", c.Secret)
}
