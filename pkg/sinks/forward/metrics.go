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

package forward

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// readWarningsCount is used to indicate the number of warnings read from the engine
var readWarningsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "sink_forwarder",
	Name:      "read_total",
	Help:      "Total number of Warnings Read",
}, []string{metrics.LabelPipeline})

// writeWarningsCount is used to indicate the number of warnings written
var writeWarningsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "sink_forwarder",
	Name:      "write_total",
	Help:      "Total number of Warnings Written",
}, []string{metrics.LabelPipeline, metrics.LabelSink})

// writeWarningsError is used to indicate the number of failed write attempts
var writeWarningsError = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "sink_forwarder",
	Name:      "write_error_total",
	Help:      "Total number of Write Errors",
}, []string{metrics.LabelPipeline, metrics.LabelSink})

// dropWarningsCount is used to indicate the number of warnings dropped after the retries are exhausted
var dropWarningsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "sink_forwarder",
	Name:      "drop_total",
	Help:      "Total number of Warnings Dropped",
}, []string{metrics.LabelPipeline, metrics.LabelSink})

// writeProcessingTime is a histogram to observe the time taken to write a batch to a sink
var writeProcessingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: "sink_forwarder",
	Name:      "write_processing_time",
	Help:      "Processing times of a batch write to a sink (100 microseconds to 20 minutes)",
	Buckets:   prometheus.ExponentialBucketsRange(100, 60000000*20, 10),
}, []string{metrics.LabelPipeline, metrics.LabelSink})
