// Package session holds the identity of the caller for one request.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// Revoker invalidates a session token until it would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

// Context tells components who is signed in and with which role. It starts in the
// loading state and leaves it once the session check finishes.
type Context struct {
	mu        sync.RWMutex
	user      *domain.User
	profile   *domain.Profile
	loading   bool
	tokenID   string
	expiresAt time.Time
	revoker   Revoker
}

// New returns a loading, signed-out context. revoker may be nil.
func New(revoker Revoker) *Context {
	return &Context{loading: true, revoker: revoker}
}

// Establish records the signed-in identity and completes loading.
func (c *Context) Establish(user *domain.User, profile *domain.Profile, tokenID string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
	c.profile = profile
	c.tokenID = tokenID
	c.expiresAt = expiresAt
	c.loading = false
}

// Finish completes loading without an identity.
func (c *Context) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
}

func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// User returns a copy of the signed-in user, or nil.
func (c *Context) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Profile returns a copy of the profile so callers cannot change the role.
func (c *Context) Profile() *domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

func (c *Context) SignedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *Context) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.profile.IsAdmin()
}

// UserID returns the signed-in user's id or the empty string.
func (c *Context) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.ID
}

// SignOut revokes the session token and clears the identity. The identity is cleared
// even when revocation fails.
func (c *Context) SignOut(ctx context.Context) error {
	c.mu.Lock()
	tokenID, expiresAt := c.tokenID, c.expiresAt
	c.user = nil
	c.profile = nil
	c.tokenID = ""
	c.expiresAt = time.Time{}
	c.loading = false
	c.mu.Unlock()

	if c.revoker == nil || tokenID == "" {
		return nil
	}
	return c.revoker.Revoke(ctx, tokenID, expiresAt)
}
