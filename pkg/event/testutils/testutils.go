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

package testutils

import (
	"fmt"
	"time"

	"github.com/numaproj/numacep/pkg/event"
)

// BuildTestEvents builds one event per value for the given key, spaced by step starting at startTime.
// The values are stored in the given field.
func BuildTestEvents(key string, field string, startTime time.Time, step time.Duration, values ...float64) []event.Event {
	events := make([]event.Event, 0, len(values))
	for i, v := range values {
		events = append(events, event.Event{
			ID:        fmt.Sprintf("%s-%d", key, i),
			Key:       key,
			EventTime: startTime.Add(time.Duration(i) * step),
			Fields:    map[string]float64{field: v},
		})
	}
	return events
}

// Day returns the start of the given 1-based day counted from the unix epoch, handy for daily windows.
func Day(n int) time.Time {
	return time.Unix(0, 0).UTC().Add(time.Duration(n) * 24 * time.Hour)
}
