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

package watermark

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/watermark/wmb"
)

func TestTracker_AscendingInput(t *testing.T) {
	tr := NewTracker("ascending", DropAndCount)
	assert.Equal(t, wmb.InitialWatermark, tr.Watermark())
	base := time.Unix(1651129200, 0)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		wm, ok := tr.Advance(event.Event{Key: "A", EventTime: ts})
		assert.True(t, ok)
		assert.Equal(t, wmb.Watermark(ts), wm)
	}
	assert.Equal(t, int64(0), tr.Dropped())
}

func TestTracker_LateEvents(t *testing.T) {
	tr := NewTracker("late", DropAndCount)
	base := time.Unix(1651129200, 0)
	_, ok := tr.Advance(event.Event{Key: "A", EventTime: base})
	assert.True(t, ok)

	// equal timestamp is late
	wm, ok := tr.Advance(event.Event{Key: "A", EventTime: base})
	assert.False(t, ok)
	assert.Equal(t, wmb.Watermark(base), wm)

	// behind the watermark is late
	wm, ok = tr.Advance(event.Event{Key: "A", EventTime: base.Add(-time.Minute)})
	assert.False(t, ok)
	assert.Equal(t, wmb.Watermark(base), wm)

	assert.Equal(t, int64(2), tr.Dropped())
	assert.Equal(t, 2.0, testutil.ToFloat64(lateDataDropped.WithLabelValues("late", metrics.ReasonLate)))
}

func TestTracker_DropSilently(t *testing.T) {
	tr := NewTracker("silent", DropSilently)
	base := time.Unix(1651129200, 0)
	tr.Advance(event.Event{EventTime: base})
	_, ok := tr.Advance(event.Event{EventTime: base})
	assert.False(t, ok)
	assert.Equal(t, int64(1), tr.Dropped())
	assert.Equal(t, 0.0, testutil.ToFloat64(lateDataDropped.WithLabelValues("silent", metrics.ReasonLate)))
}

func TestLatePolicy_String(t *testing.T) {
	assert.Equal(t, "count", DropAndCount.String())
	assert.Equal(t, "silent", DropSilently.String())
	assert.Equal(t, "unknown", LatePolicy(9).String())
}
