/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

// Package decision maps an extraction and a caller-supplied confidence
// threshold to a single outcome. It is pure: identical inputs always give
// identical outcomes.
package decision

import (
	"fmt"
	"math"

	"github.com/dowhistle/dowhistle-mcp/agents/extractor"
)

// Kind is the outcome of a decision.
type Kind int

const (
	// Commit means the extraction may be persisted.
	Commit Kind = iota
	// ClarificationNeeded means the caller must supply more input.
	ClarificationNeeded
)

func (k Kind) String() string {
	if k == Commit {
		return "commit"
	}
	return "clarification_needed"
}

// LowConfidenceMessage is the clarification message used when the
// extraction scores below the threshold without asking again itself.
const LowConfidenceMessage = "I'm not confident I understood your request. Could you describe the service, whether you offer or need it, and how far away matches may be?"

// DefaultThreshold is the threshold used when the caller does not supply one.
const DefaultThreshold = 0.7

// Outcome is the result of Decide. Message is empty for Commit.
type Outcome struct {
	Kind    Kind
	Message string
}

// ThresholdError reports a threshold outside [0,1].
type ThresholdError struct {
	Threshold float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("confidence_threshold must be between 0 and 1, got %v", e.Threshold)
}

// ValidateThreshold rejects NaN and values outside [0,1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return &ThresholdError{Threshold: threshold}
	}
	return nil
}

// Decide applies the policy in order:
//  1. the extractor asked again: clarify with its reason verbatim
//  2. the score is below threshold: clarify with LowConfidenceMessage
//  3. otherwise commit
//
// A score equal to the threshold commits.
func Decide(data *extractor.WhistleData, threshold float64) Outcome {
	if data.AskAgain() {
		return Outcome{Kind: ClarificationNeeded, Message: data.Reason()}
	}
	if data.ConfidenceScore() < threshold {
		return Outcome{Kind: ClarificationNeeded, Message: LowConfidenceMessage}
	}
	return Outcome{Kind: Commit}
}
