// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a missing or nonexistent input path, an
	// invalid path combination, a refused overwrite, or an output name
	// collision.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports a directory input paired with a non-directory
	// output.
	ErrInvalidState = errors.New("invalid state")
)

// CodecError wraps a failure reported by a codec backend while converting
// one file.
type CodecError struct {
	Backend string
	Input   string
	Err     error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: converting %s: %v", e.Backend, e.Input, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }
