/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// eventsIngested counts the events accepted by Ingest.
var eventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "events_total",
	Help:      "Total number of events ingested",
}, []string{metrics.LabelPipeline})

// eventsFiltered counts the incomplete records rejected by the filter.
var eventsFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "events_filtered_total",
	Help:      "Total number of events rejected by the filter",
}, []string{metrics.LabelPipeline, metrics.LabelReason})

// warningsEmitted counts the warnings written to the output.
var warningsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "warnings_total",
	Help:      "Total number of warnings emitted",
}, []string{metrics.LabelPipeline, metrics.LabelPattern})

// laneKeys is the number of keys owned by a lane.
var laneKeys = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "engine",
	Name:      "lane_keys",
	Help:      "Number of keys owned by a lane",
}, []string{metrics.LabelPipeline, metrics.LabelLane})

// laneBacklog is the number of events waiting in the inbound channel of a lane.
var laneBacklog = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "engine",
	Name:      "lane_backlog",
	Help:      "Number of events waiting in the inbound channel of a lane",
}, []string{metrics.LabelPipeline, metrics.LabelLane})

// laneErrors counts the events whose processing panicked.
var laneErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "engine",
	Name:      "lane_errors_total",
	Help:      "Total number of events a lane failed to process",
}, []string{metrics.LabelPipeline, metrics.LabelLane})
