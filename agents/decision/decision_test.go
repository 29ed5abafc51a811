/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package decision

import (
	"errors"
	"math"
	"testing"

	"github.com/dowhistle/dowhistle-mcp/agents/extractor"
	"github.com/google/go-cmp/cmp"
)

func whistle(t *testing.T, askAgain bool, reason string, score float64) *extractor.WhistleData {
	t.Helper()
	f := extractor.Fields{
		Description:     "Fixes sinks",
		AlertRadius:     5,
		Provider:        extractor.ProviderYes,
		Expiry:          "never",
		AskAgain:        askAgain,
		Reason:          reason,
		ConfidenceScore: score,
	}
	w, err := extractor.NewWhistleData(f)
	if err != nil {
		t.Fatalf("NewWhistleData() error = %v", err)
	}
	return w
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		askAgain  bool
		reason    string
		score     float64
		threshold float64
		want      Outcome
	}{{
		name:      "confident commit",
		score:     0.95,
		threshold: 0.2,
		want:      Outcome{Kind: Commit},
	}, {
		name:      "score equal to threshold commits",
		score:     0.7,
		threshold: 0.7,
		want:      Outcome{Kind: Commit},
	}, {
		name:      "score below threshold",
		score:     0.69,
		threshold: 0.7,
		want:      Outcome{Kind: ClarificationNeeded, Message: LowConfidenceMessage},
	}, {
		name:      "ask again beats perfect score",
		askAgain:  true,
		reason:    "Need more details",
		score:     1.0,
		threshold: 0,
		want:      Outcome{Kind: ClarificationNeeded, Message: "Need more details"},
	}, {
		name:      "ask again with low score keeps the reason",
		askAgain:  true,
		reason:    "Need more details",
		score:     0.2,
		threshold: 0.8,
		want:      Outcome{Kind: ClarificationNeeded, Message: "Need more details"},
	}, {
		name:      "zero threshold accepts zero score",
		score:     0,
		threshold: 0,
		want:      Outcome{Kind: Commit},
	}, {
		name:      "threshold one needs certainty",
		score:     0.999,
		threshold: 1,
		want:      Outcome{Kind: ClarificationNeeded, Message: LowConfidenceMessage},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := whistle(t, tt.askAgain, tt.reason, tt.score)
			got := Decide(data, tt.threshold)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decide() (-want +got):\n%s", diff)
			}
			// Same inputs, same outcome.
			if again := Decide(data, tt.threshold); again != got {
				t.Errorf("Decide() not deterministic: %+v then %+v", got, again)
			}
		})
	}
}

func TestLowConfidenceMessageIsDistinct(t *testing.T) {
	data := whistle(t, true, LowConfidenceMessage+" (extractor)", 0.1)
	if got := Decide(data, 0.9); got.Message == LowConfidenceMessage {
		t.Errorf("ask-again reason replaced by the low confidence message")
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, ok := range []float64{0, 0.2, 0.7, 1} {
		if err := ValidateThreshold(ok); err != nil {
			t.Errorf("ValidateThreshold(%v) = %v", ok, err)
		}
	}
	for _, bad := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		err := ValidateThreshold(bad)
		var te *ThresholdError
		if !errors.As(err, &te) {
			t.Errorf("ValidateThreshold(%v) = %v, want *ThresholdError", bad, err)
		}
	}
}

func TestKindString(t *testing.T) {
	if Commit.String() != "commit" || ClarificationNeeded.String() != "clarification_needed" {
		t.Errorf("Kind strings = %q, %q", Commit, ClarificationNeeded)
	}
}
