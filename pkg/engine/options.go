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
	"fmt"

	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/watermark"
)

type options struct {
	// lanes is the number of sequential processing lanes
	lanes int
	// laneBufferSize is the size of the inbound channel of a lane
	laneBufferSize int
	// outputBufferSize is the size of the warning output channel
	outputBufferSize int
	// recentWarnings is the number of warnings kept for Recent
	recentWarnings int
	filter         event.Filter
	keyFunc        event.KeyFunc
	latePolicy     watermark.LatePolicy
}

func defaultOptions() *options {
	return &options{
		lanes:            4,
		laneBufferSize:   500,
		outputBufferSize: 1000,
		recentWarnings:   100,
		keyFunc:          event.ByKey,
		latePolicy:       watermark.DropAndCount,
	}
}

// Option to apply different options
type Option func(*options) error

// WithLanes sets the number of lanes
func WithLanes(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("lanes must be positive, got %d", n)
		}
		o.lanes = n
		return nil
	}
}

// WithLaneBufferSize sets the inbound buffer size of every lane
func WithLaneBufferSize(size int) Option {
	return func(o *options) error {
		if size < 0 {
			return fmt.Errorf("lane buffer size can not be negative, got %d", size)
		}
		o.laneBufferSize = size
		return nil
	}
}

// WithOutputBufferSize sets the buffer size of the output channel
func WithOutputBufferSize(size int) Option {
	return func(o *options) error {
		if size < 0 {
			return fmt.Errorf("output buffer size can not be negative, got %d", size)
		}
		o.outputBufferSize = size
		return nil
	}
}

// WithRecentWarnings sets how many warnings are kept for Recent
func WithRecentWarnings(n int) Option {
	return func(o *options) error {
		o.recentWarnings = n
		return nil
	}
}

// WithFilter sets the filter rejecting incomplete records
func WithFilter(f event.Filter) Option {
	return func(o *options) error {
		o.filter = f
		return nil
	}
}

// WithKeyFunc sets the partition key extraction
func WithKeyFunc(f event.KeyFunc) Option {
	return func(o *options) error {
		if f == nil {
			return fmt.Errorf("key function can not be nil")
		}
		o.keyFunc = f
		return nil
	}
}

// WithLatePolicy sets the late data policy of the watermark trackers
func WithLatePolicy(p watermark.LatePolicy) Option {
	return func(o *options) error {
		o.latePolicy = p
		return nil
	}
}
