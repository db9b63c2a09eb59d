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

// Package ewma provides an exponentially weighted moving average.
package ewma

// DefaultSpan is the span used when none is given.
const DefaultSpan = 30.0

// EWMA is an exponentially weighted moving average, the first value seeds the average.
type EWMA struct {
	// alpha is the smoothing factor, 2/(span+1)
	alpha float64
	value float64
	count int
}

// New returns an EWMA over the given span, a span below 1 falls back to DefaultSpan.
func New(span float64) *EWMA {
	if span < 1 {
		span = DefaultSpan
	}
	return &EWMA{alpha: 2.0 / (span + 1.0)}
}

// Add folds a value into the average.
func (e *EWMA) Add(value float64) {
	if e.count == 0 {
		e.value = value
	} else {
		e.value += e.alpha * (value - e.value)
	}
	e.count++
}

// Value returns the current average, zero before the first Add.
func (e *EWMA) Value() float64 {
	return e.value
}

// Count returns the number of values added.
func (e *EWMA) Count() int {
	return e.count
}
