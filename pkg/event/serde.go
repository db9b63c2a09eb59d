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

package event

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrMissingTime is returned when a decoded event carries no event time.
var ErrMissingTime = errors.New("event has no time")

// wireEvent is the JSON representation of an Event.
type wireEvent struct {
	ID     string             `json:"id,omitempty"`
	Key    string             `json:"key"`
	Time   json.RawMessage    `json:"time"`
	Fields map[string]float64 `json:"fields,omitempty"`
	Tags   map[string]string  `json:"tags,omitempty"`
}

// Marshal encodes the event as JSON, the event time is written as RFC3339 with nanoseconds in UTC.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(wireEvent{
		ID:     e.ID,
		Key:    e.Key,
		Time:   json.RawMessage(strconv.Quote(e.EventTime.UTC().Format(time.RFC3339Nano))),
		Fields: e.Fields,
		Tags:   e.Tags,
	})
}

// Unmarshal decodes an event from JSON. The time can be a number of epoch milliseconds or any date string
// understood by dateparse, strings without a zone are read as UTC. A missing id is generated.
func Unmarshal(b []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return Event{}, fmt.Errorf("failed to decode event, %w", err)
	}
	t, err := parseTime(w.Time)
	if err != nil {
		return Event{}, err
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return Event{
		ID:        w.ID,
		Key:       w.Key,
		EventTime: t,
		Fields:    w.Fields,
		Tags:      w.Tags,
	}, nil
}

// parseTime reads the raw time value. Integral epoch milliseconds are decoded exactly, a fractional part is kept
// as sub-millisecond nanoseconds.
func parseTime(raw json.RawMessage) (time.Time, error) {
	v := strings.TrimSpace(string(raw))
	if v == "" || v == "null" {
		return time.Time{}, ErrMissingTime
	}
	if strings.HasPrefix(v, `"`) {
		var str string
		if err := json.Unmarshal([]byte(v), &str); err != nil {
			return time.Time{}, fmt.Errorf("failed to decode event time %s, %w", v, err)
		}
		if str == "" {
			return time.Time{}, ErrMissingTime
		}
		parsed, err := dateparse.ParseIn(str, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse event time %q, %w", str, err)
		}
		return parsed.UTC(), nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported event time %s", v)
	}
	whole, frac := math.Modf(f)
	return time.UnixMilli(int64(whole)).Add(time.Duration(math.Round(frac * float64(time.Millisecond)))).UTC(), nil
}
