// Package credentials resolves HTTP Basic credentials for authentication
// scopes, asking the user the first time a scope is seen and remembering the
// answer for the life of the [Store].
//
// Credentials are kept in memory only. They are never written to disk.
//
// # Usage
//
//	store := credentials.NewStore(credentials.NewTerminalPrompter(os.Stdin, os.Stderr))
//	cred, err := store.Resolve(ctx, credentials.Scope{Host: "example.com", Port: "443", Realm: "api"})
//
// # Non-interactive use
//
// [FromEnv] seeds a store with a credential taken from $URLFS_HTTP_USERNAME
// and $URLFS_HTTP_PASSWORD. The password may instead be read from the file
// named by $URLFS_HTTP_PASSWORD_FILE. A seeded credential answers any scope
// that hasn't been resolved otherwise, so no prompt is ever shown.
package credentials
