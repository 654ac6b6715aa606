package pool

import (
	"errors"
	"fmt"
)

// ErrPoolClosed is returned by Submit after Shutdown has relinquished the
// producing side of the queue. Work rejected this way was never scheduled.
var ErrPoolClosed = errors.New("thread pool is closed")

// CreationError reports an invalid pool configuration to callers that use the
// fallible Build constructor instead of the fail-fast New.
type CreationError struct {
	Reason string
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("thread pool creation failed: %s", e.Reason)
}
