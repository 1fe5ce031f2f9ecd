package query

import "errors"

// ErrInvalidConfiguration is returned by NewRegistry when the filter set is
// malformed. The wrapped error lists every problem found.
var ErrInvalidConfiguration = errors.New("invalid filter configuration")
