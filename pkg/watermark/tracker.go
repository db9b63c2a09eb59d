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

// Package watermark tracks the event-time progress of a key. The Tracker advances a monotonic watermark
// from the event times it observes and rejects events which are at or behind it. The watermark is kept per key
// and written only by the lane owning the key, other goroutines may read it.
package watermark

import (
	"go.uber.org/atomic"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/watermark/wmb"
)

// LatePolicy decides what happens to late events beyond dropping them.
type LatePolicy int

const (
	// DropAndCount drops late events and reports them on the late data counter.
	DropAndCount LatePolicy = iota
	// DropSilently drops late events without reporting them.
	DropSilently
)

func (p LatePolicy) String() string {
	switch p {
	case DropAndCount:
		return "count"
	case DropSilently:
		return "silent"
	default:
		return "unknown"
	}
}

// Tracker is the watermark tracker of a single key.
type Tracker struct {
	pipeline  string
	policy    LatePolicy
	watermark *atomic.Time
	dropped   *atomic.Int64
}

// NewTracker returns a Tracker starting at wmb.InitialWatermark.
func NewTracker(pipeline string, policy LatePolicy) *Tracker {
	return &Tracker{
		pipeline:  pipeline,
		policy:    policy,
		watermark: atomic.NewTime(wmb.InitialWatermark.Time()),
		dropped:   atomic.NewInt64(0),
	}
}

// Advance observes the event and returns the current watermark together with whether the event was accepted.
// An event with a time at or behind the current watermark is late, it is dropped and the watermark stays.
// Advance must only be called by the owner of the key.
func (t *Tracker) Advance(e event.Event) (wmb.Watermark, bool) {
	current := wmb.Watermark(t.watermark.Load())
	if current.Passed(e.EventTime) {
		t.dropped.Inc()
		if t.policy == DropAndCount {
			lateDataDropped.With(map[string]string{metrics.LabelPipeline: t.pipeline, metrics.LabelReason: metrics.ReasonLate}).Inc()
		}
		return current, false
	}
	t.watermark.Store(e.EventTime)
	return wmb.Watermark(e.EventTime), true
}

// Watermark returns the current watermark, it is safe to call from any goroutine.
func (t *Tracker) Watermark() wmb.Watermark {
	return wmb.Watermark(t.watermark.Load())
}

// Dropped returns the number of late events dropped by the tracker.
func (t *Tracker) Dropped() int64 {
	return t.dropped.Load()
}
