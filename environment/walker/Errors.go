package walker

import "errors"

// Configuration errors. These indicate a wiring bug rather than a
// runtime condition, and abort the step that encounters them.
var (
	ErrActionLength    = errors.New("action vector length mismatch")
	ErrMissingBodyPart = errors.New("missing body part")
	ErrNilBody         = errors.New("nil body")
	ErrNilTarget       = errors.New("nil target")
)
