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
	"sort"
	"sync"
	"time"
)

// SortedWindowList is a thread safe list implementation, which is sorted by window start time
// from lowest to highest. Two windows are the same window when their start and end times are equal.
type SortedWindowList[W TimedWindow] struct {
	windows []W
	lock    *sync.RWMutex
}

// NewSortedWindowList implements a window list ordered by the start time. The Front/Head of the list will always have the smallest
// element while the End/Tail will have the largest element (start time).
func NewSortedWindowList[W TimedWindow]() *SortedWindowList[W] {
	return &SortedWindowList[W]{
		windows: make([]W, 0),
		lock:    &sync.RWMutex{},
	}
}

func sameWindow(a, b TimedWindow) bool {
	return a.StartTime().Equal(b.StartTime()) && a.EndTime().Equal(b.EndTime())
}

// InsertIfNotPresent inserts a window to the list of active windows if not present and returns the window.
// The returned bool is true when the window was already present, in which case the existing window is returned.
func (s *SortedWindowList[W]) InsertIfNotPresent(window W) (W, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	// most of the inserts are for the most recent window, so check the tail first
	if n := len(s.windows); n == 0 || s.windows[n-1].StartTime().Before(window.StartTime()) {
		s.windows = append(s.windows, window)
		return window, false
	}

	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].StartTime().Before(window.StartTime())
	})

	updatedIndex := len(s.windows)

	for i := index; i < len(s.windows); i++ {
		if sameWindow(s.windows[i], window) {
			return s.windows[i], true
		}

		if s.windows[i].StartTime().After(window.StartTime()) {
			updatedIndex = i
			break
		}
	}

	s.windows = append(s.windows, window)
	copy(s.windows[updatedIndex+1:], s.windows[updatedIndex:])
	s.windows[updatedIndex] = window

	return window, false
}

// Delete deletes a window from the list.
func (s *SortedWindowList[W]) Delete(window W) (deleted bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].StartTime().Before(window.StartTime())
	})

	for i := index; i < len(s.windows); i++ {
		if sameWindow(s.windows[i], window) {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return true
		}

		if s.windows[i].StartTime().After(window.StartTime()) {
			break
		}
	}
	return false
}

// RemoveWindows removes the windows whose end time is smaller than or equal to the given time and returns them
// in start time order.
func (s *SortedWindowList[W]) RemoveWindows(t time.Time) []W {
	s.lock.Lock()
	defer s.lock.Unlock()

	index := sort.Search(len(s.windows), func(i int) bool {
		return s.windows[i].EndTime().After(t)
	})

	removed := make([]W, index)
	copy(removed, s.windows[:index])

	s.windows = s.windows[index:]

	return removed
}

// RemoveAll empties the list and returns all the windows in start time order.
func (s *SortedWindowList[W]) RemoveAll() []W {
	s.lock.Lock()
	defer s.lock.Unlock()

	removed := s.windows
	s.windows = make([]W, 0)
	return removed
}

// Len returns the length of the window.
func (s *SortedWindowList[W]) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.windows)
}

// Front returns the smallest element from the list.
func (s *SortedWindowList[W]) Front() W {
	var front W
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.windows) == 0 {
		return front
	}
	return s.windows[0]
}

// Back returns the largest element from the list.
func (s *SortedWindowList[W]) Back() W {
	var back W
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.windows) == 0 {
		return back
	}
	return s.windows[len(s.windows)-1]
}

// Items returns the entire window list.
func (s *SortedWindowList[W]) Items() []W {
	s.lock.RLock()
	defer s.lock.RUnlock()

	items := make([]W, len(s.windows))
	copy(items, s.windows)

	return items
}

// FindWindowForTime returns the window that contains t, start inclusive and end exclusive.
func (s *SortedWindowList[W]) FindWindowForTime(t time.Time) (W, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	// windows do not overlap, so the candidate is the last window starting at or before t
	index := sort.Search(len(s.windows), func(i int) bool {
		return s.windows[i].StartTime().After(t)
	})

	if index > 0 && s.windows[index-1].EndTime().After(t) {
		return s.windows[index-1], true
	}

	var empty W
	return empty, false
}
