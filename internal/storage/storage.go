// Package storage provides the local persistence port for client state
// (token, profile, cart, checkout draft) and its implementations.
package storage

// Keys under which client state is persisted.
const (
	KeyToken         = "token"
	KeyProfile       = "profile"
	KeyCart          = "cart"
	KeyCheckoutDraft = "checkout-draft"
)

// Store is a keyed blob store. Implementations must tolerate concurrent use.
type Store interface {
	// Get returns the stored value or errs.ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores the value, replacing any previous one.
	Set(key string, value []byte) error

	// Delete removes the value. Deleting an absent key is not an error.
	Delete(key string) error
}
