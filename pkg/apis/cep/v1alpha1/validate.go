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

package v1alpha1

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/numaproj/numacep/pkg/cfgerr"
)

var (
	reducerTypes = map[string]bool{"max": true, "min": true, "first": true, "last": true, "mean": true, "median": true, "ewma": true}
	fieldless    = map[string]bool{"first": true, "last": true}
	severities   = map[string]bool{SeverityInfo: true, SeverityWarning: true, SeverityCritical: true}
	contiguities = map[string]bool{"": true, "strict": true, "relaxed": true}
)

// Validate checks the pipeline after defaulting and returns every problem found, combined.
// Stage conditions are only checked for presence, they are compiled when the patterns are built.
func (p Pipeline) Validate() error {
	var err error
	if p.Name == "" {
		err = multierr.Append(err, cfgerr.New("name", "pipeline name is required"))
	}
	ps := p.Spec
	if ps.GetWindowLength() <= 0 {
		err = multierr.Append(err, cfgerr.Newf("window.length", "must be positive, got %v", ps.GetWindowLength()))
	}
	rt := ps.Window.Reducer.Type
	if !reducerTypes[rt] {
		err = multierr.Append(err, cfgerr.Newf("window.reducer.type", "unknown reducer %q", rt))
	} else if !fieldless[rt] && ps.Window.Reducer.Field == "" {
		err = multierr.Append(err, cfgerr.Newf("window.reducer.field", "reducer %q requires a field", rt))
	}
	if lp := ps.GetLatePolicy(); lp != LatePolicyCount && lp != LatePolicySilent {
		err = multierr.Append(err, cfgerr.Newf("latePolicy", "unknown late policy %q", lp))
	}
	if ps.Key != nil && ps.Key.Tag == "" {
		err = multierr.Append(err, cfgerr.New("key.tag", "tag is required when key is set"))
	}
	err = multierr.Append(err, validatePatterns(ps.Patterns))
	if n := ps.Source.count(); n != 1 {
		err = multierr.Append(err, cfgerr.Newf("source", "exactly one source is required, got %d", n))
	}
	err = multierr.Append(err, validateSinks(ps.Sinks))
	if l := ps.Limits; l != nil {
		if l.Lanes <= 0 {
			err = multierr.Append(err, cfgerr.New("limits.lanes", "must be positive"))
		}
		if l.LaneBufferSize < 0 || l.OutputBufferSize < 0 || l.RecentWarnings < 0 {
			err = multierr.Append(err, cfgerr.New("limits", "buffer sizes can not be negative"))
		}
	}
	return err
}

func validatePatterns(patterns []PatternSpec) error {
	if len(patterns) == 0 {
		return cfgerr.New("patterns", "at least one pattern is required")
	}
	var err error
	names := map[string]bool{}
	for i, p := range patterns {
		field := fmt.Sprintf("patterns[%d]", i)
		if p.Name == "" {
			err = multierr.Append(err, cfgerr.New(field+".name", "pattern name is required"))
		} else if names[p.Name] {
			err = multierr.Append(err, cfgerr.Newf(field+".name", "duplicate pattern name %q", p.Name))
		}
		names[p.Name] = true
		if p.GetWithin() <= 0 {
			err = multierr.Append(err, cfgerr.New(field+".within", "must be positive"))
		}
		if len(p.Stages) == 0 {
			err = multierr.Append(err, cfgerr.New(field+".stages", "at least one stage is required"))
		}
		stages := map[string]bool{}
		for j, s := range p.Stages {
			sf := fmt.Sprintf("%s.stages[%d]", field, j)
			if s.Name == "" {
				err = multierr.Append(err, cfgerr.New(sf+".name", "stage name is required"))
			} else if stages[s.Name] {
				err = multierr.Append(err, cfgerr.Newf(sf+".name", "duplicate stage name %q", s.Name))
			}
			stages[s.Name] = true
			if s.Condition == "" {
				err = multierr.Append(err, cfgerr.New(sf+".condition", "condition is required"))
			}
			if !contiguities[s.Contiguity] {
				err = multierr.Append(err, cfgerr.Newf(sf+".contiguity", "unknown contiguity %q", s.Contiguity))
			}
		}
		if p.Warning != nil && p.Warning.Severity != "" && !severities[p.Warning.Severity] {
			err = multierr.Append(err, cfgerr.Newf(field+".warning.severity", "unknown severity %q", p.Warning.Severity))
		}
	}
	return err
}

func validateSinks(sinks []SinkSpec) error {
	var err error
	names := map[string]bool{}
	for i, s := range sinks {
		field := fmt.Sprintf("sinks[%d]", i)
		if s.Name == "" {
			err = multierr.Append(err, cfgerr.New(field+".name", "sink name is required"))
		} else if names[s.Name] {
			err = multierr.Append(err, cfgerr.Newf(field+".name", "duplicate sink name %q", s.Name))
		}
		names[s.Name] = true
		if s.count() != 1 {
			err = multierr.Append(err, cfgerr.New(field, "exactly one of log, kafka, redis is required"))
			continue
		}
		if k := s.Kafka; k != nil && (len(k.Brokers) == 0 || k.Topic == "") {
			err = multierr.Append(err, cfgerr.New(field+".kafka", "brokers and topic are required"))
		}
		if r := s.Redis; r != nil && r.URL == "" {
			err = multierr.Append(err, cfgerr.New(field+".redis.url", "url is required"))
		}
	}
	return err
}
