package session

import (
	"context"
	"errors"
)

// DefaultKey is the fixed storage key the dashboard has always used for its
// one session record.
const DefaultKey = "accred_user"

// ErrAbsent is returned by Read when no session record exists.
var ErrAbsent = errors.New("session absent")

// ErrMalformed is returned when a stored record fails to parse or carries no
// email. Callers downgrade it to "no session" rather than surfacing it.
var ErrMalformed = errors.New("session malformed")

// ErrStoreUnavailable is returned when the storage backend cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store persists exactly one Session under a fixed key.
//
// Save fully replaces any prior record. Read returns [ErrAbsent] when the key
// is unset and [ErrMalformed] when the stored value fails to parse. Clear
// removes the key and is idempotent: clearing an already-empty store is not
// an error.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Read(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
