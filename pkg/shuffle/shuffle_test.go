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

package shuffle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/event/testutils"
)

func TestShuffle_Lane(t *testing.T) {
	s := NewShuffle(4)
	assert.Equal(t, 4, s.Lanes())
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key_%d", i)
		lane := s.Lane(key)
		assert.GreaterOrEqual(t, lane, 0)
		assert.Less(t, lane, 4)
		assert.Equal(t, lane, s.Lane(key))
	}
	assert.Equal(t, 1, NewShuffle(0).Lanes())
	assert.Equal(t, 0, NewShuffle(0).Lane("any"))
}

func TestShuffle_ShuffleEvents(t *testing.T) {
	tests := []struct {
		name  string
		lanes int
		keys  int
	}{
		{name: "MoreKeysThanLanes", lanes: 4, keys: 1000},
		{name: "MoreLanesThanKeys", lanes: 100, keys: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewShuffle(tt.lanes)
			var events []event.Event
			for i := 0; i < tt.keys; i++ {
				events = append(events, testutils.BuildTestEvents(fmt.Sprintf("key_%d", i), "v", time.Unix(0, 0), time.Second, 1, 2)...)
			}
			byLane := s.ShuffleEvents(events, event.ByKey)
			sum := 0
			for lane, evs := range byLane {
				sum += len(evs)
				for _, e := range evs {
					assert.Equal(t, lane, s.Lane(e.Key))
				}
			}
			assert.Equal(t, len(events), sum)
		})
	}
}

func TestShuffle_KeepsOrderPerKey(t *testing.T) {
	s := NewShuffle(3)
	events := testutils.BuildTestEvents("A", "v", time.Unix(0, 0), time.Second, 1, 2, 3, 4)
	byLane := s.ShuffleEvents(events, event.ByKey)
	assert.Equal(t, events, byLane[s.Lane("A")])
}
