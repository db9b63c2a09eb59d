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

// Package warning turns completed matches into warnings. A Factory is supplied per pattern; the default factory
// builds the tagged Warning value whose Kind discriminates the warning variants.
package warning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/nfa"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

// Warning is the value derived from a match.
type Warning struct {
	// ID is unique per warning.
	ID string
	// Kind is the discriminant of the warning variant, e.g. "HeatWarning".
	Kind string
	// Pattern is the name of the matched pattern.
	Pattern string
	// Key of the matched events.
	Key string
	// Severity of the warning.
	Severity string
	// Time is the event time of the last bound event.
	Time time.Time
	// Values are the copied payload fields, named "<stage>.<field>".
	Values map[string]float64
	// Events are the bound events in stage order.
	Events []event.Event
}

// Factory builds a warning from a match. It must not mutate the match.
type Factory[W any] func(nfa.Match) (W, error)

// NewFactory returns the factory building the tagged Warning described by the spec. The listed fields are
// copied from every bound event; a field missing from all the bound events fails the emission.
func NewFactory(spec v1alpha1.WarningSpec) Factory[Warning] {
	fields := append([]string(nil), spec.Fields...)
	return func(m nfa.Match) (Warning, error) {
		values := make(map[string]float64, len(fields)*len(m.Stages))
		for _, f := range fields {
			found := false
			for _, stage := range m.Stages {
				e, ok := m.Event(stage)
				if !ok {
					continue
				}
				if v, ok := e.Field(f); ok {
					values[stage+"."+f] = v
					found = true
				}
			}
			if !found {
				return Warning{}, fmt.Errorf("field %q is missing from the match of %q", f, m.Pattern)
			}
		}
		kind := spec.Kind
		if kind == "" {
			kind = m.Pattern
		}
		return Warning{
			ID:       MatchID(kind, m),
			Kind:     kind,
			Pattern:  m.Pattern,
			Key:      m.Key,
			Severity: spec.Severity,
			Time:     m.Last,
			Values:   values,
			Events:   m.Events(),
		}, nil
	}
}

// warningNamespace is the name space of the warning ids.
var warningNamespace = uuid.MustParse("6f1c3a9e-2b7d-4c55-9e0a-5d3b8f41c2a7")

// MatchID derives the id of the warning from the kind, the pattern, the key and the bound events, so replaying the
// same input yields the same ids.
func MatchID(kind string, m nfa.Match) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(0)
	b.WriteString(m.Pattern)
	b.WriteByte(0)
	b.WriteString(m.Key)
	for _, stage := range m.Stages {
		for _, e := range m.Bindings[stage] {
			b.WriteByte(0)
			b.WriteString(stage)
			b.WriteByte(0)
			b.WriteString(e.ID)
			b.WriteByte(0)
			b.WriteString(strconv.FormatInt(e.EventTime.UnixNano(), 10))
		}
	}
	return uuid.NewSHA1(warningNamespace, []byte(b.String())).String()
}

// Build invokes the factory, a factory returning an error or panicking only aborts this emission. The failure
// is logged and counted, ok is false.
func Build[W any](ctx context.Context, pipeline string, f Factory[W], m nfa.Match) (w W, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fail(ctx, pipeline, m, fmt.Errorf("factory panicked: %v", r))
			var zero W
			w, ok = zero, false
		}
	}()
	w, err := f(m)
	if err != nil {
		fail(ctx, pipeline, m, err)
		var zero W
		return zero, false
	}
	return w, true
}

func fail(ctx context.Context, pipeline string, m nfa.Match, err error) {
	logging.FromContext(ctx).Errorw("Failed to build warning", "pattern", m.Pattern, "key", m.Key, "last", m.Last, "error", err)
	factoryFailures.With(map[string]string{metrics.LabelPipeline: pipeline, metrics.LabelPattern: m.Pattern}).Inc()
}
