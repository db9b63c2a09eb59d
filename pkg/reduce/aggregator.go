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

// Package reduce implements the tumbling window aggregator. Every key owns an Aggregator which assigns its events to
// fixed windows, folds each window with a Reducer and emits one representative event per window once the watermark
// of the key passes the end of the window.
package reduce

import (
	"time"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/watermark/wmb"
	"github.com/numaproj/numacep/pkg/window"
	"github.com/numaproj/numacep/pkg/window/strategy/fixed"
)

// Result is the representative event of a sealed window.
type Result struct {
	// Window is the sealed window.
	Window *window.KeyedWindow
	// Event is the representative event produced by the reducer.
	Event event.Event
	// Count is the number of events folded into the window.
	Count int
}

// pane is an open window with its running reduction.
type pane struct {
	*window.KeyedWindow
	acc   Accumulator
	count int
}

// Aggregator is the tumbling window aggregator of a single key. It is not safe for concurrent use, the lane owning
// the key is the only caller.
type Aggregator struct {
	pipeline string
	key      string
	windower *fixed.Fixed
	reducer  Reducer
	panes    *window.SortedWindowList[*pane]
	// sealedUntil is the end of the latest sealed window, events before it can no longer be aggregated.
	sealedUntil time.Time
	dropped     int64
}

// NewAggregator returns the aggregator of the given key.
func NewAggregator(pipeline, key string, windower *fixed.Fixed, reducer Reducer) *Aggregator {
	return &Aggregator{
		pipeline: pipeline,
		key:      key,
		windower: windower,
		reducer:  reducer,
		panes:    window.NewSortedWindowList[*pane](),
	}
}

// Ingest assigns the event to its window and folds it into the window's reduction. It returns false when the event
// belongs to a window which was already sealed, such an event is dropped.
func (a *Aggregator) Ingest(e event.Event) bool {
	if e.EventTime.Before(a.sealedUntil) {
		a.dropped++
		droppedEvents.With(map[string]string{metrics.LabelPipeline: a.pipeline, metrics.LabelReason: metrics.ReasonSealed}).Inc()
		return false
	}
	kw := a.windower.AssignWindow(a.key, e.EventTime)
	p, present := a.panes.InsertIfNotPresent(&pane{KeyedWindow: kw})
	if !present {
		p.acc = a.reducer.NewAccumulator()
		openWindows.With(map[string]string{metrics.LabelPipeline: a.pipeline}).Inc()
	}
	p.acc.Add(e)
	p.count++
	return true
}

// CloseWindows seals every window whose end is at or behind the watermark and returns their results in start time
// order. Each window is returned exactly once.
func (a *Aggregator) CloseWindows(wm wmb.Watermark) []Result {
	return a.seal(a.panes.RemoveWindows(wm.Time()))
}

// Drain seals all the open windows regardless of the watermark.
func (a *Aggregator) Drain() []Result {
	return a.seal(a.panes.RemoveAll())
}

func (a *Aggregator) seal(panes []*pane) []Result {
	if len(panes) == 0 {
		return nil
	}
	results := make([]Result, 0, len(panes))
	for _, p := range panes {
		results = append(results, Result{
			Window: p.KeyedWindow,
			Event:  p.acc.Result(),
			Count:  p.count,
		})
		if p.EndTime().After(a.sealedUntil) {
			a.sealedUntil = p.EndTime()
		}
	}
	labels := map[string]string{metrics.LabelPipeline: a.pipeline}
	openWindows.With(labels).Sub(float64(len(panes)))
	sealedWindows.With(labels).Add(float64(len(panes)))
	return results
}

// Open returns the number of open windows.
func (a *Aggregator) Open() int {
	return a.panes.Len()
}

// OpenSince returns the start of the earliest open window, no later event can be folded into a window starting
// before it.
func (a *Aggregator) OpenSince() (time.Time, bool) {
	if a.panes.Len() == 0 {
		return time.Time{}, false
	}
	return a.panes.Front().StartTime(), true
}

// Dropped returns the number of events dropped because their window was already sealed.
func (a *Aggregator) Dropped() int64 {
	return a.dropped
}
