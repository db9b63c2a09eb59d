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

package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/nfa"
	"github.com/numaproj/numacep/pkg/reduce"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/warning"
	"github.com/numaproj/numacep/pkg/watermark"
)

// keyState is everything a lane keeps for one key.
type keyState struct {
	tracker    *watermark.Tracker
	aggregator *reduce.Aggregator
	// matchers in pattern order
	matchers []*nfa.Matcher
}

// lane processes the events of the keys routed to it, one at a time.
type lane[W any] struct {
	id     int
	label  string
	engine *Engine[W]
	in     chan event.Event
	keys   map[string]*keyState
}

func newLane[W any](e *Engine[W], id int) *lane[W] {
	return &lane[W]{
		id:     id,
		label:  laneLabel(id),
		engine: e,
		in:     make(chan event.Event, e.opts.laneBufferSize),
		keys:   make(map[string]*keyState),
	}
}

func (l *lane[W]) run(ctx context.Context) error {
	log := logging.FromContext(ctx).With("lane", l.id)
	ctx = logging.WithLogger(ctx, log)
	backlog := laneBacklog.With(map[string]string{metrics.LabelPipeline: l.engine.pipeline, metrics.LabelLane: l.label})
	for ev := range l.in {
		backlog.Set(float64(len(l.in)))
		l.safeProcess(ctx, ev)
	}
	backlog.Set(0)
	l.drain(ctx)
	log.Infow("Lane drained", "keys", len(l.keys))
	return nil
}

// safeProcess applies the event, a panic only loses this event.
func (l *lane[W]) safeProcess(ctx context.Context, ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			laneErrors.With(map[string]string{metrics.LabelPipeline: l.engine.pipeline, metrics.LabelLane: l.label}).Inc()
			logging.FromContext(ctx).Errorw("Failed to process event", "key", ev.Key, "id", ev.ID, "error", fmt.Errorf("%v", r))
		}
	}()
	l.process(ctx, ev)
}

func (l *lane[W]) process(ctx context.Context, ev event.Event) {
	ks, err := l.state(ev.Key)
	if err != nil {
		panic(err)
	}
	wm, ok := ks.tracker.Advance(ev)
	if !ok {
		l.engine.stats.late.Inc()
		return
	}
	if !ks.aggregator.Ingest(ev) {
		l.engine.stats.late.Inc()
		return
	}
	for _, r := range ks.aggregator.CloseWindows(wm) {
		l.match(ctx, ks, r)
	}
	// a later window result can not be earlier than the earliest open window
	horizon := wm.Time()
	if since, ok := ks.aggregator.OpenSince(); ok {
		horizon = since
	}
	for _, m := range ks.matchers {
		m.Expire(horizon)
	}
}

// match feeds a window result to every pattern of the key and emits the warnings of the completed matches.
func (l *lane[W]) match(ctx context.Context, ks *keyState, r reduce.Result) {
	l.engine.stats.windows.Inc()
	for i, m := range ks.matchers {
		p := l.engine.patterns[i]
		for _, match := range m.Process(r.Event) {
			l.engine.stats.matches.Inc()
			w, ok := warning.Build(ctx, l.engine.pipeline, p.Factory, match)
			if !ok {
				l.engine.stats.factoryFailures.Inc()
				continue
			}
			l.engine.emit(p, w)
		}
	}
}

// drain seals the open windows of every key, in key order, and discards the partial matches left.
func (l *lane[W]) drain(ctx context.Context) {
	keys := make([]string, 0, len(l.keys))
	for k := range l.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ks := l.keys[k]
		for _, r := range ks.aggregator.Drain() {
			l.match(ctx, ks, r)
		}
		for _, m := range ks.matchers {
			m.Drain()
		}
	}
}

func (l *lane[W]) state(key string) (*keyState, error) {
	if ks, ok := l.keys[key]; ok {
		return ks, nil
	}
	e := l.engine
	ks := &keyState{
		tracker:    watermark.NewTracker(e.pipeline, e.opts.latePolicy),
		aggregator: reduce.NewAggregator(e.pipeline, key, e.windower, e.reducer),
		matchers:   make([]*nfa.Matcher, 0, len(e.patterns)),
	}
	for _, p := range e.patterns {
		m, err := nfa.NewMatcher(p.Definition, e.pipeline, key)
		if err != nil {
			return nil, err
		}
		ks.matchers = append(ks.matchers, m)
	}
	l.keys[key] = ks
	laneKeys.With(map[string]string{metrics.LabelPipeline: e.pipeline, metrics.LabelLane: l.label}).Inc()
	return ks, nil
}
