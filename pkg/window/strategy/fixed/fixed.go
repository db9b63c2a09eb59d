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

// Package fixed implements Fixed windows. Fixed windows (sometimes called tumbling windows) are
// defined by a static window size, e.g. minutely windows or daily windows. They are aligned, i.e. every
// window applies across all the data for the corresponding period of time, and they never overlap.
package fixed

import (
	"time"

	"github.com/numaproj/numacep/pkg/cfgerr"
	"github.com/numaproj/numacep/pkg/window"
)

// Fixed assigns events to fixed windows of Length.
type Fixed struct {
	// Length is the temporal length of the window.
	Length time.Duration
}

// NewFixed returns a Fixed windower, the length must be positive.
func NewFixed(length time.Duration) (*Fixed, error) {
	if length <= 0 {
		return nil, cfgerr.Newf("window.length", "must be positive, got %s", length)
	}
	return &Fixed{Length: length}, nil
}

// Strategy returns the window strategy
func (f *Fixed) Strategy() window.Strategy {
	return window.Fixed
}

// AssignWindow assigns the window of the given key for the given eventTime.
func (f *Fixed) AssignWindow(key string, eventTime time.Time) *window.KeyedWindow {
	start := f.windowStart(eventTime)
	end := start.Add(f.Length)

	// Assignment of windows should follow a Left inclusive and right exclusive
	// principle. Flooring guarantees that any element on the boundary will
	// automatically fall in to the window to the right of the boundary.
	return window.NewKeyedWindow(key, start, end)
}

// windowStart floors the event time to a multiple of Length counted from the unix epoch. time.Truncate is
// not used because it aligns on the zero time, which differs from the epoch for lengths that do not divide a day.
func (f *Fixed) windowStart(eventTime time.Time) time.Time {
	ns := eventTime.UnixNano()
	length := int64(f.Length)
	offset := ns % length
	if offset < 0 {
		offset += length
	}
	return time.Unix(0, ns-offset).In(eventTime.Location())
}
