package reembed

import "errors"

// ErrInvalidMaxAttempts is returned when retry is configured with a
// non-positive attempt count.
var ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
