/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts JSON replies from completion text.

Models asked for JSON do not always return bare JSON. The reply may be
wrapped in a markdown fence, preceded by a sentence of prose, or followed by
notes. ExtractJSON returns the JSON body in all of these cases:

	```json
	{"key": "value"}
	```

	Here is the extraction:
	```json
	{"key": "value"}
	```
	Let me know if anything is missing.

	{"key": "value"}

Extract combines ExtractJSON with strict decoding into T. Unknown fields and
anything after the first JSON value are errors:

	r, err := result.Extract[reply](text)
	if err != nil {
		return fmt.Errorf("decoding reply: %w", err)
	}
*/
package result
