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

package warning

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/numacep/pkg/metrics"
)

// factoryFailures counts the matches for which no warning could be built.
var factoryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "warning",
	Name:      "factory_failure_total",
	Help:      "Total number of matches the warning factory failed on",
}, []string{metrics.LabelPipeline, metrics.LabelPattern})
