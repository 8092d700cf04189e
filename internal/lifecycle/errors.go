package lifecycle

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks failures detected before any host state was touched.
// Callers can distinguish "refused to run" from "ran and failed partway".
var ErrPrecondition = errors.New("precondition failed")

func precondition(err error) error {
	return fmt.Errorf("%w: %w", ErrPrecondition, err)
}
