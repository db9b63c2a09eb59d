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
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/numaproj/numacep/pkg/event"
)

type wireWarning struct {
	ID       string             `json:"id"`
	Kind     string             `json:"kind"`
	Pattern  string             `json:"pattern"`
	Key      string             `json:"key"`
	Severity string             `json:"severity,omitempty"`
	Time     string             `json:"time"`
	Values   map[string]float64 `json:"values,omitempty"`
	Events   []json.RawMessage  `json:"events"`
}

// Marshal encodes the warning as JSON, the bound events use the event encoding.
func Marshal(w Warning) ([]byte, error) {
	events := make([]json.RawMessage, 0, len(w.Events))
	for _, e := range w.Events {
		b, err := event.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event %q of warning %q, %w", e.ID, w.ID, err)
		}
		events = append(events, b)
	}
	return json.Marshal(wireWarning{
		ID:       w.ID,
		Kind:     w.Kind,
		Pattern:  w.Pattern,
		Key:      w.Key,
		Severity: w.Severity,
		Time:     w.Time.UTC().Format(time.RFC3339Nano),
		Values:   w.Values,
		Events:   events,
	})
}

// MarshalJSON makes the warning usable with any JSON encoder, e.g. the HTTP status endpoint.
func (w Warning) MarshalJSON() ([]byte, error) {
	return Marshal(w)
}
