package cryptoclient

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by gated operations before Prepare succeeds.
// The message is shown to users verbatim.
var ErrNotInitialized = errors.New("End-to-end encryption has not initialized") //nolint:staticcheck // user-facing text

// UpstreamError reports a failure from a collaborator (store, account or
// homeserver). Err is the collaborator's error, unchanged.
type UpstreamError struct {
	// Op names the step that failed, e.g. "upload device keys".
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("cryptoclient: %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
