// Package recipients defines the audience contract consumed by the dispatch
// pipeline. Implementations live next to their transports; the core only
// depends on this interface.
package recipients

import (
	"context"
	"errors"
)

// Recipient is an opaque external identity. It is an ephemeral snapshot valid
// for a single dispatch session; the core never stores it.
type Recipient struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ErrUnavailable means the audience could not be determined at all. It is a
// distinct outcome from an empty list: an empty list is a legitimate audience
// of zero, while Unavailable means the session must not proceed to commit.
var ErrUnavailable = errors.New("recipient source unavailable")

// Source supplies the current recipient set. Implementations handle
// pagination internally; callers always receive one logical list.
type Source interface {
	FetchAll(ctx context.Context) ([]Recipient, error)
}
