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

package nfa

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// activePartials is the number of live partial matches per pattern.
var activePartials = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "nfa",
	Name:      "active_partial_matches",
	Help:      "Number of in-flight partial matches",
}, []string{metrics.LabelPipeline, metrics.LabelPattern})

// matchesTotal counts the completed matches.
var matchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "nfa",
	Name:      "matches_total",
	Help:      "Total number of completed matches",
}, []string{metrics.LabelPipeline, metrics.LabelPattern})

// discardedPartials counts the partial matches dropped before completion, by reason.
var discardedPartials = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "nfa",
	Name:      "discarded_partial_matches_total",
	Help:      "Total number of partial matches discarded before completion",
}, []string{metrics.LabelPipeline, metrics.LabelPattern, metrics.LabelReason})
