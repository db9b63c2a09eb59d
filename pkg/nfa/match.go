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
	"time"

	"github.com/numaproj/numacep/pkg/event"
)

// Match is a completed sequence, every stage of the pattern bound to exactly one event.
type Match struct {
	// Pattern is the name of the matched pattern.
	Pattern string
	// Key of the events.
	Key string
	// Stages are the stage names in pattern order.
	Stages []string
	// Bindings maps a stage name to the events satisfying it.
	Bindings map[string][]event.Event
	// First and Last are the event times of the first and the last bound event.
	First time.Time
	Last  time.Time
}

// Events returns the bound events in stage order.
func (m Match) Events() []event.Event {
	out := make([]event.Event, 0, len(m.Stages))
	for _, s := range m.Stages {
		out = append(out, m.Bindings[s]...)
	}
	return out
}

// Event returns the event bound to the stage.
func (m Match) Event(stage string) (event.Event, bool) {
	events := m.Bindings[stage]
	if len(events) == 0 {
		return event.Event{}, false
	}
	return events[0], true
}

// Elapsed is the time between the first and the last bound event.
func (m Match) Elapsed() time.Duration {
	return m.Last.Sub(m.First)
}
