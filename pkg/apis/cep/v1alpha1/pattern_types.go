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

// PatternSpec is the serializable form of a pattern definition.
type PatternSpec struct {
	Name string `json:"name"`
	// Within is the maximum elapsed time between the first and the last event of a match.
	Within *metav1.Duration `json:"within,omitempty"`
	// Stages in the order they have to be matched.
	Stages []StageSpec `json:"stages"`
	// Warning describes the warning emitted for every match.
	// +optional
	Warning *WarningSpec `json:"warning,omitempty"`
}

type StageSpec struct {
	Name string `json:"name"`
	// Condition is a boolean expression evaluated against the event, e.g. "temperature >= 41".
	Condition string `json:"condition"`
	// Contiguity relative to the previous stage, "strict" (default) or "relaxed".
	// +optional
	Contiguity string `json:"contiguity,omitempty"`
}

type WarningSpec struct {
	// Kind is the discriminant of the warning, the pattern name is used when empty.
	// +optional
	Kind string `json:"kind,omitempty"`
	// Severity is one of info, warning, critical.
	// +optional
	Severity string `json:"severity,omitempty"`
	// Fields are copied from the bound events into the warning values, named "<stage>.<field>".
	// +optional
	Fields []string `json:"fields,omitempty"`
}

func (p PatternSpec) GetWarning() WarningSpec {
	w := WarningSpec{}
	if p.Warning != nil {
		w = *p.Warning
	}
	if w.Kind == "" {
		w.Kind = p.Name
	}
	if w.Severity == "" {
		w.Severity = SeverityWarning
	}
	return w
}
