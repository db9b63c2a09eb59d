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

// Package wmb holds the Watermark type. A watermark is a monotonically increasing timestamp below which no
// further events are expected for a key.
package wmb

import "time"

// Watermark is the monotonically increasing watermark of a key. Only the lane owning the key advances it.
type Watermark time.Time

// InitialWatermark is the watermark before any event has been seen.
var InitialWatermark = Watermark(time.UnixMilli(-1))

func (w Watermark) String() string {
	var location, _ = time.LoadLocation("UTC")
	var t = time.Time(w).In(location)
	return t.Format(time.RFC3339Nano)
}

func (w Watermark) UnixMilli() int64 {
	return time.Time(w).UnixMilli()
}

func (w Watermark) After(t time.Time) bool {
	return time.Time(w).After(t)
}

func (w Watermark) AfterWatermark(compare Watermark) bool {
	return w.After(time.Time(compare))
}

func (w Watermark) Before(t time.Time) bool {
	return time.Time(w).Before(t)
}

func (w Watermark) BeforeWatermark(compare Watermark) bool {
	return w.Before(time.Time(compare))
}

// Passed reports whether the watermark has reached or gone beyond t, i.e. nothing at or before t is expected anymore.
func (w Watermark) Passed(t time.Time) bool {
	return !w.Before(t)
}

func (w Watermark) Add(t time.Duration) time.Time {
	return time.Time(w).Add(t)
}

func (w Watermark) Time() time.Time {
	return time.Time(w)
}
