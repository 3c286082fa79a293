package usecase

import "errors"

// ErrStoreUnavailable wraps infrastructure failures surfaced by a profile use
// case. Reported once to the caller, never retried automatically.
var ErrStoreUnavailable = errors.New("profile: store unavailable")
