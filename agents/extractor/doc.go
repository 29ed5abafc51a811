/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package extractor turns free-text whistle requests into validated WhistleData
with a single structured completion call.

The completion backend is chosen from the model name:

  - claude-*: Anthropic Messages API, with a forced record_whistle tool whose
    input schema is reflected from the reply contract.
  - gemini-*: Google GenAI, with a JSON response schema.
  - gpt-* and o*: OpenAI chat completions, with a strict JSON schema
    response format.

Every call is rate limited, traced with agenttrace, and counted with the
metrics package. Failures of the completion call and replies that break the
contract are returned as errors wrapping ErrExtraction. Nothing is retried.

# Usage

	ex, err := extractor.New(ctx, extractor.Config{
		Model:        "gpt-4o-mini",
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		return err
	}
	data, err := ex.Extract(ctx, "Need a plumber within 5km, this week")
*/
package extractor
