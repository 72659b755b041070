package api

import (
	"context"
	"sync"
)

// CredentialType distinguishes the two authentication schemes.
type CredentialType int

const (
	// CredentialAPIKey is a static key sent in the X-API-Key header.
	CredentialAPIKey CredentialType = iota
	// CredentialBearer is a short-lived token sent as an Authorization bearer.
	CredentialBearer
)

// Credential is an opaque authentication value.
type Credential struct {
	Type  CredentialType
	Value string
}

// RefreshFunc obtains a new bearer token. An empty result with a nil error
// means the caller could not produce a token; the in-flight request is then
// translated as a terminal failure.
//
// The transport does not deduplicate refreshes: two concurrent requests that
// both hit a 401 may both invoke the callback. Implementations must be safe
// to call concurrently.
type RefreshFunc func(ctx context.Context) (string, error)

// credentialCell is the single slot holding the active credential.
// The refresh swap must be visible to every subsequent attempt issued by
// any goroutine sharing the client, so reads and writes go through a mutex.
type credentialCell struct {
	mu      sync.RWMutex
	cred    Credential
	refresh RefreshFunc
}

func newCredentialCell(cred Credential, refresh RefreshFunc) *credentialCell {
	return &credentialCell{cred: cred, refresh: refresh}
}

// get returns the current credential.
func (c *credentialCell) get() Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred
}

// canRefresh reports whether a refresh callback is configured.
func (c *credentialCell) canRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh != nil
}

// swap replaces the credential value in place, keeping the type.
func (c *credentialCell) swap(value string) {
	c.mu.Lock()
	c.cred.Value = value
	c.mu.Unlock()
}

// doRefresh invokes the refresh callback and, if it yielded a token, swaps
// it into the cell. Returns true when the swap happened.
func (c *credentialCell) doRefresh(ctx context.Context) (bool, error) {
	c.mu.RLock()
	refresh := c.refresh
	c.mu.RUnlock()

	if refresh == nil {
		return false, nil
	}

	token, err := refresh(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	c.swap(token)
	return true, nil
}
