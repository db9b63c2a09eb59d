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

// Package shuffle routes keys to processing lanes. A key is always routed to the same lane, so the lane owning a
// key sees all of its events in arrival order.
package shuffle

import (
	"github.com/spaolacci/murmur3"

	"github.com/numaproj/numacep/pkg/event"
)

// Shuffle maps keys onto a fixed number of lanes.
type Shuffle struct {
	lanes uint64
}

// NewShuffle returns a Shuffle over the given number of lanes, at least one.
func NewShuffle(lanes int) *Shuffle {
	if lanes < 1 {
		lanes = 1
	}
	return &Shuffle{lanes: uint64(lanes)}
}

// Lane returns the lane index of the key.
func (s *Shuffle) Lane(key string) int {
	return int(murmur3.Sum64([]byte(key)) % s.lanes)
}

// Lanes returns the number of lanes.
func (s *Shuffle) Lanes() int {
	return int(s.lanes)
}

// ShuffleEvents groups the events by lane, keeping their relative order within each lane.
func (s *Shuffle) ShuffleEvents(events []event.Event, keyFunc event.KeyFunc) map[int][]event.Event {
	out := make(map[int][]event.Event)
	for _, e := range events {
		lane := s.Lane(keyFunc(e))
		out[lane] = append(out[lane], e)
	}
	return out
}
