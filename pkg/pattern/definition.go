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

// Package pattern describes the ordered sequence of stages a pattern matcher looks for. A Definition is plain
// data: named stages with a predicate and a contiguity mode, plus the time bound of the whole sequence.
package pattern

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/numaproj/numacep/pkg/cfgerr"
	"github.com/numaproj/numacep/pkg/event"
)

// Contiguity is the relation between a stage and the stage before it.
type Contiguity int

const (
	// Strict requires the stage to bind the event immediately following the previous stage's event. Any event
	// that does not satisfy the stage discards the partial match.
	Strict Contiguity = iota
	// Relaxed skips the events which do not satisfy the stage, the partial match waits for the next matching event.
	Relaxed
)

func (c Contiguity) String() string {
	switch c {
	case Strict:
		return "strict"
	case Relaxed:
		return "relaxed"
	default:
		return "unknown"
	}
}

// ParseContiguity parses the contiguity name, the empty string is Strict.
func ParseContiguity(s string) (Contiguity, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "relaxed":
		return Relaxed, nil
	default:
		return Strict, fmt.Errorf("unknown contiguity %q", s)
	}
}

// Predicate decides whether an event satisfies a stage.
type Predicate func(event.Event) bool

// Stage is a single named step of a pattern.
type Stage struct {
	// Name of the stage, unique within a pattern. Matches bind events by stage name.
	Name string
	// Predicate the event must satisfy.
	Predicate Predicate
	// Contiguity relative to the previous stage, ignored for the first stage.
	Contiguity Contiguity
}

// Definition is an ordered sequence of stages with a time bound.
type Definition struct {
	// Name of the pattern.
	Name string
	// Stages in the order they have to be matched.
	Stages []Stage
	// Within is the maximum elapsed time between the first and the last bound event of a match.
	Within time.Duration
}

// Validate returns a ConfigurationError for every problem of the definition, combined with multierr.
func (d *Definition) Validate() error {
	var errs error
	if d.Name == "" {
		errs = multierr.Append(errs, cfgerr.New("name", "pattern name is required"))
	}
	if len(d.Stages) == 0 {
		errs = multierr.Append(errs, cfgerr.Newf("stages", "pattern %q has no stages", d.Name))
	}
	if d.Within <= 0 {
		errs = multierr.Append(errs, cfgerr.Newf("within", "pattern %q time bound must be positive, got %s", d.Name, d.Within))
	}
	seen := make(map[string]struct{}, len(d.Stages))
	for i, s := range d.Stages {
		field := fmt.Sprintf("stages[%d]", i)
		if s.Name == "" {
			errs = multierr.Append(errs, cfgerr.New(field+".name", "stage name is required"))
		} else if _, ok := seen[s.Name]; ok {
			errs = multierr.Append(errs, cfgerr.Newf(field+".name", "duplicate stage %q", s.Name))
		}
		seen[s.Name] = struct{}{}
		if s.Predicate == nil {
			errs = multierr.Append(errs, cfgerr.New(field+".predicate", "predicate is required"))
		}
		if s.Contiguity != Strict && s.Contiguity != Relaxed {
			errs = multierr.Append(errs, cfgerr.Newf(field+".contiguity", "unknown contiguity %d", s.Contiguity))
		}
	}
	return errs
}

// Len returns the number of stages.
func (d *Definition) Len() int {
	return len(d.Stages)
}
