/*
File: credentials.go
Description: Credential access over the persisted settings store. One
Credential value bundles the authorization token and request signature so
callers read and write them atomically.
*/

package auth

import (
	"github.com/xau-tools/xau/pkg/settings"
)

// Credential is the authorization material of the signed-in account.
type Credential struct {
	AuthToken        string
	Signature        string
	SignatureEnabled bool
}

// SignedIn reports whether a token is present.
func (c Credential) SignedIn() bool { return c.AuthToken != "" }

// CredentialStore persists credentials through the settings store.
type CredentialStore struct {
	store *settings.Store
}

// NewCredentialStore wraps the settings store.
func NewCredentialStore(store *settings.Store) *CredentialStore {
	return &CredentialStore{store: store}
}

// Get reads the current credential.
func (s *CredentialStore) Get() Credential {
	return Credential{
		AuthToken:        s.store.AuthToken(),
		Signature:        s.store.UserSignature(),
		SignatureEnabled: s.store.SignatureEnabled(),
	}
}

// Set persists cred.
func (s *CredentialStore) Set(cred Credential) {
	s.store.SetAuthToken(cred.AuthToken)
	s.store.SetUserSignature(cred.Signature)
	s.store.SetSignatureEnabled(cred.SignatureEnabled)
}

// SetToken replaces only the authorization token.
func (s *CredentialStore) SetToken(token string) {
	s.store.SetAuthToken(token)
}

// Clear drops the stored token, signing the account out. The signature
// settings survive a sign-out.
func (s *CredentialStore) Clear() {
	s.store.SetAuthToken("")
}
