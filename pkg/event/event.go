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

// Package event defines the record type that flows through the engine. An Event carries the partition key,
// the event time and a flat payload of numeric fields and string tags.
package event

import (
	"time"
)

// Event is a timestamped, keyed record. Events are treated as immutable once produced, use WithField
// to derive a modified copy.
type Event struct {
	// ID uniquely identifies the event, it is populated by the source or generated on decode.
	ID string
	// Key is the partition key, every key is processed by exactly one lane.
	Key string
	// EventTime is the measurement time of the event.
	EventTime time.Time
	// Fields are the numeric payload fields, e.g. temperature or wind speed.
	Fields map[string]float64
	// Tags are the string payload fields.
	Tags map[string]string
}

// Field returns the value of the numeric field and whether it is present.
func (e Event) Field(name string) (float64, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// Tag returns the value of the tag and whether it is present.
func (e Event) Tag(name string) (string, bool) {
	v, ok := e.Tags[name]
	return v, ok
}

// HasFields reports whether all the given fields or tags are present.
func (e Event) HasFields(names ...string) bool {
	for _, n := range names {
		if _, ok := e.Fields[n]; ok {
			continue
		}
		if _, ok := e.Tags[n]; ok {
			continue
		}
		return false
	}
	return true
}

// WithField returns a copy of the event with the field set to v. The receiver is left untouched.
func (e Event) WithField(name string, v float64) Event {
	fields := make(map[string]float64, len(e.Fields)+1)
	for k, fv := range e.Fields {
		fields[k] = fv
	}
	fields[name] = v
	e.Fields = fields
	return e
}

// Filter decides whether an event is admitted into the pipeline.
type Filter func(Event) bool

// RequireFields returns a Filter which rejects incomplete records, i.e. events missing any of the given
// fields or tags.
func RequireFields(names ...string) Filter {
	return func(e Event) bool {
		return e.HasFields(names...)
	}
}

// KeyFunc extracts the partition key of an event.
type KeyFunc func(Event) string

// ByKey uses Event.Key as the partition key.
func ByKey(e Event) string {
	return e.Key
}

// ByTag uses the value of the given tag as the partition key, falling back to Event.Key.
func ByTag(name string) KeyFunc {
	return func(e Event) string {
		if v, ok := e.Tags[name]; ok && v != "" {
			return v
		}
		return e.Key
	}
}
