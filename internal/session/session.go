// Package session implements the in-process registry mapping opaque bearer
// tokens to authenticated identities. Sessions live for the process lifetime
// and are lost on restart.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"servis32/internal/model"
)

// tokenBytes is the entropy width of issued tokens. At 16 random bytes the
// collision probability is negligible, so Issue does not check for one.
const tokenBytes = 16

// Registry maps bearer tokens to identities. Safe for concurrent use.
// Entries are never evicted; the map grows for the process lifetime.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]model.Identity
}

// New creates an empty session registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]model.Identity)}
}

// Issue generates a fresh token for the identity and stores the mapping.
func (r *Registry) Issue(identity model.Identity) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	r.sessions[token] = identity
	r.mu.Unlock()

	return token, nil
}

// Resolve looks up the identity for a token.
func (r *Registry) Resolve(token string) (model.Identity, bool) {
	r.mu.RLock()
	identity, ok := r.sessions[token]
	r.mu.RUnlock()
	return identity, ok
}
