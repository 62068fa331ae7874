// Package session tracks per-session state: the user's API credential and the
// currently selected file search store. Nothing here ever touches disk — a
// session lives exactly as long as the process that created it.
package session

import (
	"errors"

	"github.com/calebwray/tome/pkg/domain"
)

// ErrMissingCredential is reported when an external call is attempted before
// an API key has been set. Callers surface it as a user-facing message.
var ErrMissingCredential = errors.New("missing API key — set your Gemini API key first")

// Session holds one credential and at most one active store reference.
// It is not safe for concurrent use; each session belongs to a single
// cooperative UI loop.
type Session struct {
	credential  string
	activeStore string
	stores      []domain.StoreRef
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// SetCredential stores the API key in memory, overwriting any previous value.
// The key is never validated here; the first external call does that lazily.
func (s *Session) SetCredential(v string) {
	s.credential = v
}

// Credential returns the current key, with ok=false when none has been set.
func (s *Session) Credential() (string, bool) {
	return s.credential, s.credential != ""
}

// RequireCredential returns the key or ErrMissingCredential.
func (s *Session) RequireCredential() (string, error) {
	if s.credential == "" {
		return "", ErrMissingCredential
	}
	return s.credential, nil
}

// SetActiveStore records the store subsequent uploads and questions target.
// An empty id clears the selection.
func (s *Session) SetActiveStore(id string) {
	s.activeStore = id
}

// ActiveStore returns the selected store resource name, ok=false when unset.
func (s *Session) ActiveStore() (string, bool) {
	return s.activeStore, s.activeStore != ""
}

// Remember upserts a store reference after a successful create or get.
func (s *Session) Remember(ref domain.StoreRef) {
	for i, r := range s.stores {
		if r.Name == ref.Name {
			s.stores[i] = ref
			return
		}
	}
	s.stores = append(s.stores, ref)
}

// Forget drops a store reference after a successful delete. If the deleted
// store was active, the selection is cleared too.
func (s *Session) Forget(name string) {
	for i, r := range s.stores {
		if r.Name == name {
			s.stores = append(s.stores[:i], s.stores[i+1:]...)
			break
		}
	}
	if s.activeStore == name {
		s.activeStore = ""
	}
}

// Stores returns the remembered references in creation order.
func (s *Session) Stores() []domain.StoreRef {
	out := make([]domain.StoreRef, len(s.stores))
	copy(out, s.stores)
	return out
}
