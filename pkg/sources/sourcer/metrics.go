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

package sourcer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// ReadCount counts the events read by a source.
var ReadCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "source",
	Name:      "read_total",
	Help:      "Total number of events read",
}, []string{metrics.LabelSource})

// DecodeErrors counts the records a source could not decode.
var DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "source",
	Name:      "decode_error_total",
	Help:      "Total number of records which could not be decoded",
}, []string{metrics.LabelSource})
