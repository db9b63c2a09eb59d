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

import (
	"time"

	"github.com/imdario/mergo"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SetDefaults fills every unset optional field of the pipeline spec.
func (ps *PipelineSpec) SetDefaults() {
	if ps.LatePolicy == "" {
		ps.LatePolicy = LatePolicyCount
	}
	if ps.Window.Length == nil {
		ps.Window.Length = &metav1.Duration{Duration: DefaultWindowLength}
	}
	if ps.Window.Reducer.Type == "" {
		ps.Window.Reducer.Type = DefaultReducer
	}
	if ps.Limits == nil {
		ps.Limits = &Limits{}
	}
	_ = mergo.Merge(ps.Limits, Limits{
		Lanes:            DefaultLanes,
		LaneBufferSize:   DefaultLaneBufferSize,
		OutputBufferSize: DefaultOutputBuffer,
		RecentWarnings:   DefaultRecentWarnings,
	})
	if ps.Source.HTTP != nil && ps.Source.HTTP.Addr == "" {
		ps.Source.HTTP.Addr = DefaultHTTPSourceAddr
	}
	if len(ps.Sinks) == 0 {
		ps.Sinks = []SinkSpec{{Name: "log", Log: &LogSink{}}}
	}
	for i := range ps.Sinks {
		if r := ps.Sinks[i].Redis; r != nil && r.Stream == "" {
			r.Stream = DefaultRedisStream
		}
	}
}

func (ps PipelineSpec) GetWindowLength() time.Duration {
	if ps.Window.Length == nil {
		return DefaultWindowLength
	}
	return ps.Window.Length.Duration
}

func (p PatternSpec) GetWithin() time.Duration {
	if p.Within == nil {
		return 0
	}
	return p.Within.Duration
}
