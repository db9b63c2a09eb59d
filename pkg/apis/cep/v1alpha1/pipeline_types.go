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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Pipeline is a complete CEP pipeline: source, keyed tumbling windows, patterns and sinks.
type Pipeline struct {
	Name string       `json:"name"`
	Spec PipelineSpec `json:"spec"`
}

type PipelineSpec struct {
	// Key selects the partition key of the events, the event key is used when not set.
	// +optional
	Key *KeySpec `json:"key,omitempty"`
	// Filter rejects incomplete records before they reach the windows.
	// +optional
	Filter *FilterSpec `json:"filter,omitempty"`
	// Window is the tumbling window feeding the patterns.
	Window WindowSpec `json:"window"`
	// LatePolicy is either "count" (default) or "silent".
	// +optional
	LatePolicy string `json:"latePolicy,omitempty"`
	// Patterns to match on the windowed stream.
	Patterns []PatternSpec `json:"patterns"`
	// Source of the events.
	Source SourceSpec `json:"source"`
	// Sinks receiving the warnings.
	Sinks []SinkSpec `json:"sinks"`
	// +optional
	Limits *Limits `json:"limits,omitempty"`
}

type KeySpec struct {
	// Tag whose value is used as the partition key.
	Tag string `json:"tag"`
}

type FilterSpec struct {
	// RequiredFields lists the fields or tags an event must carry to be admitted.
	RequiredFields []string `json:"requiredFields,omitempty"`
}

type WindowSpec struct {
	// Length of the fixed window.
	Length *metav1.Duration `json:"length,omitempty"`
	// Reducer folding a window into its representative event.
	Reducer ReducerSpec `json:"reducer,omitempty"`
}

type ReducerSpec struct {
	// Type is one of max, min, first, last, mean, median, ewma.
	Type string `json:"type,omitempty"`
	// Field the reducer works on, required by all types except first and last.
	// +optional
	Field string `json:"field,omitempty"`
}

type Limits struct {
	// Lanes is the number of sequential processing lanes, keys are spread over the lanes by hash.
	Lanes int `json:"lanes,omitempty"`
	// LaneBufferSize is the size of the inbound channel of every lane.
	LaneBufferSize int `json:"laneBufferSize,omitempty"`
	// OutputBufferSize is the size of the warning output channel.
	OutputBufferSize int `json:"outputBufferSize,omitempty"`
	// RecentWarnings is the number of warnings kept for the status endpoint.
	RecentWarnings int `json:"recentWarnings,omitempty"`
}

func (ps PipelineSpec) GetLatePolicy() string {
	if ps.LatePolicy == "" {
		return LatePolicyCount
	}
	return ps.LatePolicy
}

func (ps PipelineSpec) GetKeyTag() string {
	if ps.Key == nil {
		return ""
	}
	return ps.Key.Tag
}

func (ps PipelineSpec) GetRequiredFields() []string {
	if ps.Filter == nil {
		return nil
	}
	return ps.Filter.RequiredFields
}
