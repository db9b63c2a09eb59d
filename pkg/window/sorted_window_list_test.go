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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type TestWindow struct {
	Start time.Time
	End   time.Time
}

func (t *TestWindow) StartTime() time.Time {
	return t.Start
}

func (t *TestWindow) EndTime() time.Time {
	return t.End
}

func win(start, end int64) *TestWindow {
	return &TestWindow{Start: time.Unix(start, 0), End: time.Unix(end, 0)}
}

func setup(windows ...*TestWindow) *SortedWindowList[*TestWindow] {
	l := NewSortedWindowList[*TestWindow]()
	for _, w := range windows {
		l.InsertIfNotPresent(w)
	}
	return l
}

func starts(windows []*TestWindow) []int64 {
	out := make([]int64, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.Start.Unix())
	}
	return out
}

func TestSortedWindowList_InsertIfNotPresent(t *testing.T) {
	tests := []struct {
		name           string
		given          []*TestWindow
		input          *TestWindow
		expectedStarts []int64
		isPresent      bool
	}{
		{
			name:           "first_window",
			given:          []*TestWindow{},
			input:          win(0, 60),
			expectedStarts: []int64{0},
		},
		{
			name:           "late_window",
			given:          []*TestWindow{win(120, 180)},
			input:          win(60, 120),
			expectedStarts: []int64{60, 120},
		},
		{
			name:           "early_window",
			given:          []*TestWindow{win(60, 120)},
			input:          win(120, 180),
			expectedStarts: []int64{60, 120},
		},
		{
			name:           "middle_window",
			given:          []*TestWindow{win(60, 120), win(180, 240)},
			input:          win(120, 180),
			expectedStarts: []int64{60, 120, 180},
		},
		{
			name:           "existing_window",
			given:          []*TestWindow{win(60, 120), win(120, 180), win(180, 240)},
			input:          win(120, 180),
			expectedStarts: []int64{60, 120, 180},
			isPresent:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := setup(tt.given...)
			got, present := l.InsertIfNotPresent(tt.input)
			assert.Equal(t, tt.isPresent, present)
			assert.True(t, got.Start.Equal(tt.input.Start))
			assert.Equal(t, tt.expectedStarts, starts(l.Items()))
		})
	}
}

func TestSortedWindowList_InsertIfNotPresent_ReturnsExisting(t *testing.T) {
	existing := win(60, 120)
	l := setup(existing)
	got, present := l.InsertIfNotPresent(win(60, 120))
	assert.True(t, present)
	assert.Same(t, existing, got)
}

func TestSortedWindowList_Delete(t *testing.T) {
	l := setup(win(0, 60), win(60, 120), win(120, 180))
	assert.True(t, l.Delete(win(60, 120)))
	assert.False(t, l.Delete(win(60, 120)))
	assert.False(t, l.Delete(win(300, 360)))
	assert.Equal(t, []int64{0, 120}, starts(l.Items()))
}

func TestSortedWindowList_RemoveWindows(t *testing.T) {
	l := setup(win(0, 60), win(60, 120), win(120, 180))

	assert.Empty(t, l.RemoveWindows(time.Unix(59, 0)))
	// end time equal to the given time is removed
	assert.Equal(t, []int64{0, 60}, starts(l.RemoveWindows(time.Unix(120, 0))))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, []int64{120}, starts(l.RemoveAll()))
	assert.Equal(t, 0, l.Len())
}

func TestSortedWindowList_FrontBack(t *testing.T) {
	l := NewSortedWindowList[*TestWindow]()
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
	l = setup(win(60, 120), win(0, 60), win(120, 180))
	assert.Equal(t, int64(0), l.Front().Start.Unix())
	assert.Equal(t, int64(120), l.Back().Start.Unix())
}

func TestSortedWindowList_FindWindowForTime(t *testing.T) {
	l := setup(win(0, 60), win(120, 180))

	w, ok := l.FindWindowForTime(time.Unix(0, 0))
	assert.True(t, ok)
	assert.Equal(t, int64(0), w.Start.Unix())

	w, ok = l.FindWindowForTime(time.Unix(179, 0))
	assert.True(t, ok)
	assert.Equal(t, int64(120), w.Start.Unix())

	_, ok = l.FindWindowForTime(time.Unix(60, 0))
	assert.False(t, ok)

	_, ok = l.FindWindowForTime(time.Unix(180, 0))
	assert.False(t, ok)
}

func TestKeyedWindow(t *testing.T) {
	w := NewKeyedWindow("A", time.Unix(60, 0), time.Unix(120, 0))
	assert.Equal(t, "A", w.Key())
	assert.Equal(t, time.Minute, w.Length())
	assert.True(t, w.Contains(time.Unix(60, 0)))
	assert.True(t, w.Contains(time.Unix(119, 0)))
	assert.False(t, w.Contains(time.Unix(120, 0)))
	assert.Equal(t, "A-60000-120000", w.String())
	assert.Equal(t, "Fixed", Fixed.String())
}
