/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace traces completion calls made on behalf of a tool invocation.

# Overview

  - InvocationContext: which tool call (tool name, request id) an
    extraction belongs to. Attached to context.Context by the MCP server.
  - Trace[T]: one completion call, from rendered prompt to parsed result,
    backed by an OpenTelemetry span.
  - Tracer[T]: receives completed traces. The default tracer logs through clog.

# Usage

	ctx = agenttrace.WithInvocationContext(ctx, agenttrace.InvocationContext{
		Tool:      "create_whistle",
		RequestID: uuid.NewString(),
	})

	trace := agenttrace.StartTrace[*Result](ctx, "gpt-4o-mini", prompt)
	defer func() { trace.Complete(res, err) }()
	trace.RecordTokenUsage(120, 45)
*/
package agenttrace
