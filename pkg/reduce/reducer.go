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

package reduce

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/numaproj/numacep/pkg/cfgerr"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/shared/ewma"
)

// ReducerType is the name of a reduction function.
type ReducerType string

const (
	// Max keeps the event with the greatest value of the field, ties keep the earlier event.
	Max ReducerType = "max"
	// Min keeps the event with the smallest value of the field, ties keep the earlier event.
	Min ReducerType = "min"
	// First keeps the first event of the window.
	First ReducerType = "first"
	// Last keeps the last event of the window.
	Last ReducerType = "last"
	// Mean emits the last event with the field replaced by the mean over the window.
	Mean ReducerType = "mean"
	// Median emits the last event with the field replaced by the median over the window.
	Median ReducerType = "median"
	// EWMA emits the last event with the field replaced by its exponentially weighted moving average over the
	// window, in arrival order.
	EWMA ReducerType = "ewma"
)

// Reducer reduces the events of a window to a single representative event.
type Reducer interface {
	// Type returns the reducer type
	Type() ReducerType
	// NewAccumulator returns an empty accumulator for a new window.
	NewAccumulator() Accumulator
}

// Accumulator holds the running reduction of a single window.
type Accumulator interface {
	// Add folds the event into the reduction.
	Add(e event.Event)
	// Result returns the representative event, it must only be called after at least one Add.
	Result() event.Event
}

// NewReducer returns the reducer of the given type. Every type except first and last needs a field.
func NewReducer(t ReducerType, field string) (Reducer, error) {
	switch t {
	case First, Last:
		return &simpleReducer{t: t}, nil
	case Max, Min, Mean, Median, EWMA:
		if field == "" {
			return nil, cfgerr.Newf("window.reducer.field", "required for reducer %q", t)
		}
		return &fieldReducer{t: t, field: field}, nil
	default:
		return nil, cfgerr.Newf("window.reducer.type", "unknown reducer %q", t)
	}
}

type simpleReducer struct {
	t ReducerType
}

func (r *simpleReducer) Type() ReducerType {
	return r.t
}

func (r *simpleReducer) NewAccumulator() Accumulator {
	return &simpleAccumulator{keepFirst: r.t == First}
}

type simpleAccumulator struct {
	keepFirst bool
	seeded    bool
	current   event.Event
}

func (a *simpleAccumulator) Add(e event.Event) {
	if a.seeded && a.keepFirst {
		return
	}
	a.current = e
	a.seeded = true
}

func (a *simpleAccumulator) Result() event.Event {
	return a.current
}

type fieldReducer struct {
	t     ReducerType
	field string
}

func (r *fieldReducer) Type() ReducerType {
	return r.t
}

func (r *fieldReducer) NewAccumulator() Accumulator {
	switch r.t {
	case Max:
		return &extremumAccumulator{field: r.field, better: func(a, b float64) bool { return a > b }, missing: math.Inf(-1)}
	case Min:
		return &extremumAccumulator{field: r.field, better: func(a, b float64) bool { return a < b }, missing: math.Inf(1)}
	case EWMA:
		return &ewmaAccumulator{field: r.field, avg: ewma.New(ewma.DefaultSpan)}
	default:
		return &statsAccumulator{t: r.t, field: r.field}
	}
}

// extremumAccumulator keeps the best event by field, events without the field rank last.
type extremumAccumulator struct {
	field   string
	better  func(a, b float64) bool
	missing float64
	seeded  bool
	best    float64
	current event.Event
}

func (a *extremumAccumulator) Add(e event.Event) {
	v, ok := e.Field(a.field)
	if !ok {
		v = a.missing
	}
	if !a.seeded || a.better(v, a.best) {
		a.current = e
		a.best = v
		a.seeded = true
	}
}

func (a *extremumAccumulator) Result() event.Event {
	return a.current
}

// statsAccumulator collects the values of the field and replaces the field of the last event with the statistic.
type statsAccumulator struct {
	t      ReducerType
	field  string
	values stats.Float64Data
	last   event.Event
}

func (a *statsAccumulator) Add(e event.Event) {
	if v, ok := e.Field(a.field); ok {
		a.values = append(a.values, v)
	}
	a.last = e
}

func (a *statsAccumulator) Result() event.Event {
	if len(a.values) == 0 {
		return a.last
	}
	var v float64
	var err error
	if a.t == Median {
		v, err = stats.Median(a.values)
	} else {
		v, err = stats.Mean(a.values)
	}
	if err != nil {
		return a.last
	}
	return a.last.WithField(a.field, v)
}

type ewmaAccumulator struct {
	field string
	avg   *ewma.EWMA
	last  event.Event
}

func (a *ewmaAccumulator) Add(e event.Event) {
	if v, ok := e.Field(a.field); ok {
		a.avg.Add(v)
	}
	a.last = e
}

func (a *ewmaAccumulator) Result() event.Event {
	if a.avg.Count() == 0 {
		return a.last
	}
	return a.last.WithField(a.field, a.avg.Value())
}
