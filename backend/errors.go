/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package backend

import (
	"errors"
	"fmt"
)

// ErrMissingClientID is returned when a request is attempted without the
// correlation client id.
var ErrMissingClientID = errors.New("backend: client id is required")

// ErrMalformedResponse is wrapped when a 2xx body cannot be decoded or lacks
// the expected fields.
var ErrMalformedResponse = errors.New("backend: malformed response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Body holds at most maxErrorBody bytes of the response.
	Body string
}

const maxErrorBody = 512

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
