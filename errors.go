// SPDX-License-Identifier: MIT

package modconf

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a typed read of a key that is absent from the live
// set. Keys a caller always expects to resolve should be staged with
// SetDefault before restoring.
var ErrNotFound = errors.New("key not found")

// ParseError reports a typed read of a value whose stored text is not a
// valid literal of the requested type.
type ParseError struct {
	Key   string // the key that was read
	Value string // the raw stored text
	Type  string // the requested type, e.g. "int"
	Err   error  // the underlying conversion error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value %q for key %q is not a valid %s", e.Value, e.Key, e.Type)
}

func (e *ParseError) Unwrap() error { return e.Err }
