package usecase

import "errors"

// ErrStoreUnavailable wraps infrastructure failures surfaced by a use case.
// Callers report it once and let the user retry manually; there is no
// automatic retry anywhere in this core.
var ErrStoreUnavailable = errors.New("chat: store unavailable")
