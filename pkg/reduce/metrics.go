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

package reduce

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// openWindows is used to indicate the number of windows which received events and are not sealed yet
var openWindows = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "reduce_window",
	Name:      "open",
	Help:      "Number of open windows",
}, []string{metrics.LabelPipeline})

// sealedWindows is used to indicate the number of windows sealed and emitted downstream
var sealedWindows = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_window",
	Name:      "sealed_total",
	Help:      "Total number of sealed windows",
}, []string{metrics.LabelPipeline})

// droppedEvents is used to indicate the number of events dropped by the aggregator
var droppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "reduce_window",
	Name:      "dropped_total",
	Help:      "Total number of events dropped by the window aggregator",
}, []string{metrics.LabelPipeline, metrics.LabelReason})
