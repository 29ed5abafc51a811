/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dowhistle/dowhistle-mcp/agents/result"
	"github.com/dowhistle/dowhistle-mcp/agents/schema"
	"github.com/invopop/jsonschema"
)

// recordToolName is the forced tool used to collect the reply from Claude,
// and the schema name given to OpenAI.
const recordToolName = "record_whistle"

// reply is the wire contract the completion model must produce.
type reply struct {
	Description     string        `json:"description" jsonschema:"required,description=Short description of the service offered or requested"`
	AlertRadius     *float64      `json:"alert_radius" jsonschema:"required,minimum=0,description=Alert radius in kilometres. Use 0 only when ask_again is true"`
	Tags            []string      `json:"tags" jsonschema:"required,maxItems=10,description=Short lowercase labels for the service"`
	Provider        providerToken `json:"provider" jsonschema:"required,enum=yes,enum=no,enum=unknown,description=yes when the user offers the service; no when they are looking for it"`
	Expiry          string        `json:"expiry" jsonschema:"required,description=RFC 3339 UTC timestamp when the whistle expires or the literal never"`
	AskAgain        *bool         `json:"ask_again" jsonschema:"required,description=true when the input is too ambiguous to fill provider or alert_radius or tags safely"`
	Reason          string        `json:"reason" jsonschema:"required,description=What the user must clarify. Required when ask_again is true; otherwise empty"`
	ConfidenceScore *float64      `json:"confidence_score" jsonschema:"required,minimum=0,maximum=1,description=Self-assessed confidence in the extraction from 0 to 1"`
}

// providerToken decodes the provider field. Besides the schema's string
// enum it tolerates JSON booleans and null, which some models emit.
type providerToken string

func (p *providerToken) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*p = "unknown"
		return nil
	case "true":
		*p = "yes"
		return nil
	case "false":
		*p = "no"
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	*p = providerToken(s)
	return nil
}

// replySchema is the reflected contract shared by every backend.
var replySchema = func() *jsonschema.Schema {
	s := schema.ReflectType[reply]()
	s.Description = "Structured attributes of a whistle extracted from user input."
	return s
}()

var errMalformedReply = errors.New("malformed completion reply")

// parseReply decodes and validates a completion reply.
func parseReply(text string) (*WhistleData, error) {
	r, err := result.Extract[reply](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedReply, err)
	}

	switch {
	case r.AlertRadius == nil:
		return nil, fmt.Errorf("%w: missing alert_radius", errMalformedReply)
	case r.AskAgain == nil:
		return nil, fmt.Errorf("%w: missing ask_again", errMalformedReply)
	case r.ConfidenceScore == nil:
		return nil, fmt.Errorf("%w: missing confidence_score", errMalformedReply)
	}

	provider, err := ParseProvider(string(r.Provider))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedReply, err)
	}

	return NewWhistleData(Fields{
		Description:     r.Description,
		AlertRadius:     *r.AlertRadius,
		Tags:            r.Tags,
		Provider:        provider,
		Expiry:          r.Expiry,
		AskAgain:        *r.AskAgain,
		Reason:          r.Reason,
		ConfidenceScore: *r.ConfidenceScore,
	})
}
