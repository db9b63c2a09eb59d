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

package window

import (
	"fmt"
	"time"
)

// TimedWindow is a window bounded by a start and an end time.
type TimedWindow interface {
	// StartTime returns the start time of the window
	StartTime() time.Time
	// EndTime returns the end time of the window
	EndTime() time.Time
}

// KeyedWindow is a window of a single key, identified by (key, start, length).
type KeyedWindow struct {
	key       string
	startTime time.Time
	endTime   time.Time
}

var _ TimedWindow = (*KeyedWindow)(nil)

// NewKeyedWindow returns a KeyedWindow for the given key and interval.
func NewKeyedWindow(key string, start, end time.Time) *KeyedWindow {
	return &KeyedWindow{
		key:       key,
		startTime: start,
		endTime:   end,
	}
}

func (w *KeyedWindow) StartTime() time.Time {
	return w.startTime
}

func (w *KeyedWindow) EndTime() time.Time {
	return w.endTime
}

func (w *KeyedWindow) Key() string {
	return w.key
}

// Length returns the temporal length of the window.
func (w *KeyedWindow) Length() time.Duration {
	return w.endTime.Sub(w.startTime)
}

// Contains reports whether t falls into the window, start inclusive and end exclusive.
func (w *KeyedWindow) Contains(t time.Time) bool {
	return !t.Before(w.startTime) && t.Before(w.endTime)
}

// String returns the unique id of the window.
func (w *KeyedWindow) String() string {
	return fmt.Sprintf("%s-%d-%d", w.key, w.startTime.UnixMilli(), w.endTime.UnixMilli())
}

// Strategy represents the windowing strategy
type Strategy int

const (
	Fixed Strategy = iota
)

func (s Strategy) String() string {
	switch s {
	case Fixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}
