/*
Copyright 2026 The dowhistle Authors.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invocationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dowhistle_tool_invocations_total",
			Help: "Tool invocations by tool and envelope status",
		},
		[]string{"tool", "status"},
	)

	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dowhistle_tool_duration_seconds",
			Help:    "Wall time of tool invocations",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"tool"},
	)
)
