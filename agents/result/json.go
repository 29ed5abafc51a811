/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmpty is returned by Extract when the reply holds no JSON body.
	ErrEmpty = errors.New("empty reply")

	// ErrTrailingData is returned by Extract when content follows the JSON value.
	ErrTrailingData = errors.New("trailing data after JSON value")
)

const fence = "```"

// ExtractJSON returns the JSON body of a completion reply. The body of the
// first ```json (or bare ```) fence wins; prose around it is dropped. Without
// a fence the trimmed reply is returned, minus any stray fence markers.
func ExtractJSON(text string) string {
	var body bytes.Buffer
	inBlock, found := false, false

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)

		if !inBlock {
			if trimmed == fence+"json" || trimmed == fence {
				inBlock, found = true, true
			}
			continue
		}
		if trimmed == fence {
			break
		}
		if body.Len() > 0 {
			body.WriteByte('\n')
		}
		body.WriteString(line)
	}

	if found {
		return strings.TrimSpace(body.String())
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, fence+"json")
	text = strings.TrimPrefix(text, fence)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// Extract decodes the JSON body of text into T, rejecting unknown fields and
// trailing content.
func Extract[T any](text string) (T, error) {
	var out T

	body := ExtractJSON(text)
	if body == "" {
		return out, ErrEmpty
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrTrailingData, err)
		}
		return zero, ErrTrailingData
	}
	return out, nil
}
