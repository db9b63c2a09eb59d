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
	"fmt"
	"time"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/pattern"
)

// partial is an in-flight match, events holds one bound event per completed stage.
type partial struct {
	events []event.Event
	first  time.Time
}

func (p *partial) next() int {
	return len(p.events)
}

// Matcher runs a pattern over the ordered events of one key.
type Matcher struct {
	def      *pattern.Definition
	pipeline string
	key      string
	stages   []string
	// partials in creation order
	partials []*partial
}

// NewMatcher returns a matcher of the pattern for the key, the definition is validated.
func NewMatcher(def *pattern.Definition, pipeline, key string) (*Matcher, error) {
	if def == nil {
		return nil, fmt.Errorf("pattern definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	stages := make([]string, 0, def.Len())
	for _, s := range def.Stages {
		stages = append(stages, s.Name)
	}
	return &Matcher{
		def:      def,
		pipeline: pipeline,
		key:      key,
		stages:   stages,
	}, nil
}

// Process applies the event to every partial match and returns the matches it completes, in partial
// creation order. Events must be offered in non-decreasing event time.
func (m *Matcher) Process(e event.Event) []Match {
	var out []Match
	before := len(m.partials)
	kept := make([]*partial, 0, len(m.partials)+1)
	for _, p := range m.partials {
		if m.expired(p, e.EventTime) {
			m.discard(metrics.ReasonExpired, 1)
			continue
		}
		stage := m.def.Stages[p.next()]
		if stage.Predicate(e) {
			p.events = append(p.events, e)
			if p.next() == len(m.def.Stages) {
				out = append(out, m.complete(p))
				continue
			}
			kept = append(kept, p)
			continue
		}
		if stage.Contiguity == pattern.Strict {
			m.discard(metrics.ReasonStrict, 1)
			continue
		}
		kept = append(kept, p)
	}
	if m.def.Stages[0].Predicate(e) {
		p := &partial{events: []event.Event{e}, first: e.EventTime}
		if len(m.def.Stages) == 1 {
			out = append(out, m.complete(p))
		} else {
			kept = append(kept, p)
		}
	}
	m.partials = kept
	m.track(before)
	return out
}

// Expire discards the partial matches which can no longer complete by now, e.g. on watermark progression.
// It returns the number of discarded partials.
func (m *Matcher) Expire(now time.Time) int {
	before := len(m.partials)
	kept := m.partials[:0]
	for _, p := range m.partials {
		if m.expired(p, now) {
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < before; i++ {
		m.partials[i] = nil
	}
	m.partials = kept
	n := before - len(kept)
	m.discard(metrics.ReasonExpired, n)
	m.track(before)
	return n
}

// Active returns the number of live partial matches.
func (m *Matcher) Active() int {
	return len(m.partials)
}

// Drain discards every partial match and returns how many were in flight.
func (m *Matcher) Drain() int {
	before := len(m.partials)
	m.partials = nil
	m.discard(metrics.ReasonDrained, before)
	m.track(before)
	return before
}

// Definition returns the pattern of the matcher.
func (m *Matcher) Definition() *pattern.Definition {
	return m.def
}

// expired reports whether the partial exceeded the time bound at t.
func (m *Matcher) expired(p *partial, t time.Time) bool {
	return t.Sub(p.first) > m.def.Within
}

func (m *Matcher) complete(p *partial) Match {
	bindings := make(map[string][]event.Event, len(m.stages))
	for i, name := range m.stages {
		bindings[name] = []event.Event{p.events[i]}
	}
	matchesTotal.WithLabelValues(m.pipeline, m.def.Name).Inc()
	return Match{
		Pattern:  m.def.Name,
		Key:      m.key,
		Stages:   m.stages,
		Bindings: bindings,
		First:    p.first,
		Last:     p.events[len(p.events)-1].EventTime,
	}
}

func (m *Matcher) discard(reason string, n int) {
	if n <= 0 {
		return
	}
	discardedPartials.WithLabelValues(m.pipeline, m.def.Name, reason).Add(float64(n))
}

// track moves the active gauge by the change since before.
func (m *Matcher) track(before int) {
	if delta := len(m.partials) - before; delta != 0 {
		activePartials.WithLabelValues(m.pipeline, m.def.Name).Add(float64(delta))
	}
}
