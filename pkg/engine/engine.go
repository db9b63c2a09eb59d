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

// Package engine wires the pipeline stages together. Events are filtered, keyed and routed by key hash to a fixed
// set of lanes. A lane owns the watermark tracker, the window aggregator and the pattern matchers of its keys and
// processes its inbound channel sequentially, so no state is shared across lanes.
//
// Stop closes the lanes' inbound channels; every lane then seals its open windows regardless of the watermark,
// feeds their results to the matchers, discards the partial matches left and exits. The output channel is
// closed once all the lanes exited, it must be consumed until then.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/pattern"
	"github.com/numaproj/numacep/pkg/reduce"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/shared/queue"
	"github.com/numaproj/numacep/pkg/shuffle"
	"github.com/numaproj/numacep/pkg/warning"
	"github.com/numaproj/numacep/pkg/window/strategy/fixed"
)

var (
	// ErrNotStarted is returned by Ingest before Start.
	ErrNotStarted = errors.New("engine is not started")
	// ErrStopped is returned by Ingest and Start after Stop.
	ErrStopped = errors.New("engine is stopped")
)

// Pattern is a pattern definition with the factory building its warnings.
type Pattern[W any] struct {
	Definition *pattern.Definition
	Factory    warning.Factory[W]
}

// Stats are the counters of an engine.
type Stats struct {
	Ingested        int64
	Filtered        int64
	Late            int64
	Windows         int64
	Matches         int64
	Warnings        int64
	FactoryFailures int64
}

type stats struct {
	ingested        atomic.Int64
	filtered        atomic.Int64
	late            atomic.Int64
	windows         atomic.Int64
	matches         atomic.Int64
	warnings        atomic.Int64
	factoryFailures atomic.Int64
}

type state int

const (
	created state = iota
	running
	stopped
)

// Engine runs patterns over tumbling windows of a keyed event stream and emits warnings of type W.
type Engine[W any] struct {
	pipeline string
	opts     *options
	windower *fixed.Fixed
	reducer  reduce.Reducer
	patterns []Pattern[W]
	shuffle  *shuffle.Shuffle
	lanes    []*lane[W]
	output   chan W
	recent   *queue.OverflowQueue[W]
	stats    stats

	// lock guards state, Ingest holds it for reading while sending to a lane
	lock  sync.RWMutex
	state state
	group *errgroup.Group
	err   error
}

// New validates the patterns and returns an engine ready to be started.
func New[W any](pipeline string, windowLength time.Duration, reducer reduce.Reducer, patterns []Pattern[W], opts ...Option) (*Engine[W], error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	windower, err := fixed.NewFixed(windowLength)
	if err != nil {
		return nil, err
	}
	if reducer == nil {
		return nil, fmt.Errorf("reducer is required")
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one pattern is required")
	}
	for _, p := range patterns {
		if p.Definition == nil || p.Factory == nil {
			return nil, fmt.Errorf("pattern definition and factory are required")
		}
		if err := p.Definition.Validate(); err != nil {
			return nil, fmt.Errorf("invalid pattern %q, %w", p.Definition.Name, err)
		}
	}
	e := &Engine[W]{
		pipeline: pipeline,
		opts:     o,
		windower: windower,
		reducer:  reducer,
		patterns: patterns,
		shuffle:  shuffle.NewShuffle(o.lanes),
		output:   make(chan W, o.outputBufferSize),
		recent:   queue.New[W](o.recentWarnings),
	}
	for i := 0; i < o.lanes; i++ {
		e.lanes = append(e.lanes, newLane(e, i))
	}
	return e, nil
}

// Start launches the lanes. The context carries the logger, cancelling it does not stop the engine, use Stop.
func (e *Engine[W]) Start(ctx context.Context) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	switch e.state {
	case running:
		return nil
	case stopped:
		return ErrStopped
	}
	log := logging.FromContext(ctx).With("pipeline", e.pipeline)
	ctx = logging.WithLogger(ctx, log)
	e.group = &errgroup.Group{}
	for _, l := range e.lanes {
		l := l
		e.group.Go(func() error {
			return l.run(ctx)
		})
	}
	e.state = running
	log.Infow("Engine started", "lanes", len(e.lanes), "patterns", len(e.patterns), "windowLength", e.windower.Length)
	return nil
}

// Ingest filters the event, extracts its key and hands it to the lane owning the key. It blocks while the lane
// is full, unless ctx is done.
func (e *Engine[W]) Ingest(ctx context.Context, ev event.Event) error {
	e.lock.RLock()
	defer e.lock.RUnlock()
	switch e.state {
	case created:
		return ErrNotStarted
	case stopped:
		return ErrStopped
	}
	if e.opts.filter != nil && !e.opts.filter(ev) {
		e.stats.filtered.Inc()
		eventsFiltered.With(map[string]string{metrics.LabelPipeline: e.pipeline, metrics.LabelReason: metrics.ReasonIncomplete}).Inc()
		return nil
	}
	ev.Key = e.opts.keyFunc(ev)
	l := e.lanes[e.shuffle.Lane(ev.Key)]
	select {
	case l.in <- ev:
		e.ingested()
		return nil
	default:
	}
	select {
	case l.in <- ev:
		e.ingested()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine[W]) ingested() {
	e.stats.ingested.Inc()
	eventsIngested.With(map[string]string{metrics.LabelPipeline: e.pipeline}).Inc()
}

// Run starts the engine, ingests the events until in is closed or ctx is done and then stops the engine.
func (e *Engine[W]) Run(ctx context.Context, in <-chan event.Event) error {
	if err := e.Start(ctx); err != nil {
		return err
	}
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev, ok := <-in:
			if !ok {
				break loop
			}
			if err := e.Ingest(ctx, ev); err != nil {
				break loop
			}
		}
	}
	return e.Stop()
}

// Stop stops ingesting, drains every lane and closes the output. It is safe to call more than once.
func (e *Engine[W]) Stop() error {
	e.lock.Lock()
	switch e.state {
	case stopped:
		e.lock.Unlock()
		return e.err
	case created:
		e.state = stopped
		close(e.output)
		e.lock.Unlock()
		return nil
	}
	e.state = stopped
	for _, l := range e.lanes {
		close(l.in)
	}
	e.lock.Unlock()
	e.err = e.group.Wait()
	close(e.output)
	return e.err
}

// Output returns the warnings, per key in the order of the event completing each match.
func (e *Engine[W]) Output() <-chan W {
	return e.output
}

// Recent returns the latest warnings, newest first.
func (e *Engine[W]) Recent() []W {
	return e.recent.ReversedItems()
}

// Stats returns a snapshot of the counters.
func (e *Engine[W]) Stats() Stats {
	return Stats{
		Ingested:        e.stats.ingested.Load(),
		Filtered:        e.stats.filtered.Load(),
		Late:            e.stats.late.Load(),
		Windows:         e.stats.windows.Load(),
		Matches:         e.stats.matches.Load(),
		Warnings:        e.stats.warnings.Load(),
		FactoryFailures: e.stats.factoryFailures.Load(),
	}
}

// IsHealthy reports an error once the engine is stopped, it is used by the readiness probe.
func (e *Engine[W]) IsHealthy(context.Context) error {
	e.lock.RLock()
	defer e.lock.RUnlock()
	if e.state == stopped {
		return ErrStopped
	}
	return nil
}

func (e *Engine[W]) emit(p Pattern[W], w W) {
	e.recent.Append(w)
	e.output <- w
	e.stats.warnings.Inc()
	warningsEmitted.With(map[string]string{metrics.LabelPipeline: e.pipeline, metrics.LabelPattern: p.Definition.Name}).Inc()
}

func laneLabel(i int) string {
	return strconv.Itoa(i)
}
