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

package v1alpha1

import "time"

const (
	// ENV vars
	EnvPrefix = "NUMACEP"
	EnvDebug  = "NUMACEP_DEBUG"

	// Default limits
	DefaultLanes          = 4
	DefaultLaneBufferSize = 500
	DefaultRecentWarnings = 100
	DefaultOutputBuffer   = 1000

	// Default window
	DefaultWindowLength = 24 * time.Hour
	DefaultReducer      = "last"

	// Default sources and sinks
	DefaultHTTPSourceAddr   = ":8443"
	DefaultMetricsAddr      = ":2469"
	DefaultRedisStream      = "numacep-warnings"
	DefaultSinkRetrySteps   = 5
	DefaultSinkRetryBackoff = 100 * time.Millisecond

	// Late data policies
	LatePolicyCount  = "count"
	LatePolicySilent = "silent"

	// Severities
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)
