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
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/pattern"
	"github.com/numaproj/numacep/pkg/reduce"
	"github.com/numaproj/numacep/pkg/warning"
	"github.com/numaproj/numacep/pkg/watermark"
)

// FromPipeline builds an engine emitting the default warnings of the pipeline's patterns. The pipeline is expected
// to be defaulted, see v1alpha1.ParsePipeline.
func FromPipeline(ctx context.Context, p v1alpha1.Pipeline, extra ...Option) (*Engine[warning.Warning], error) {
	spec := p.Spec
	reducer, err := reduce.NewReducer(reduce.ReducerType(spec.Window.Reducer.Type), spec.Window.Reducer.Field)
	if err != nil {
		return nil, fmt.Errorf("invalid window reducer, %w", err)
	}
	patterns, err := PatternsFromSpec(ctx, spec.Patterns)
	if err != nil {
		return nil, err
	}
	opts, err := pipelineOptions(spec)
	if err != nil {
		return nil, err
	}
	return New(p.Name, spec.GetWindowLength(), reducer, patterns, append(opts, extra...)...)
}

// PatternsFromSpec compiles the patterns, every invalid pattern is reported.
func PatternsFromSpec(ctx context.Context, specs []v1alpha1.PatternSpec) ([]Pattern[warning.Warning], error) {
	var (
		patterns []Pattern[warning.Warning]
		errs     error
	)
	for _, ps := range specs {
		def, err := pattern.FromSpec(ctx, ps)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("pattern %q: %w", ps.Name, err))
			continue
		}
		patterns = append(patterns, Pattern[warning.Warning]{
			Definition: def,
			Factory:    warning.NewFactory(ps.GetWarning()),
		})
	}
	if errs != nil {
		return nil, errs
	}
	return patterns, nil
}

func pipelineOptions(spec v1alpha1.PipelineSpec) ([]Option, error) {
	var opts []Option
	if l := spec.Limits; l != nil {
		if l.Lanes > 0 {
			opts = append(opts, WithLanes(l.Lanes))
		}
		if l.LaneBufferSize > 0 {
			opts = append(opts, WithLaneBufferSize(l.LaneBufferSize))
		}
		if l.OutputBufferSize > 0 {
			opts = append(opts, WithOutputBufferSize(l.OutputBufferSize))
		}
		if l.RecentWarnings > 0 {
			opts = append(opts, WithRecentWarnings(l.RecentWarnings))
		}
	}
	if fields := spec.GetRequiredFields(); len(fields) > 0 {
		opts = append(opts, WithFilter(event.RequireFields(fields...)))
	}
	if tag := spec.GetKeyTag(); tag != "" {
		opts = append(opts, WithKeyFunc(event.ByTag(tag)))
	}
	switch spec.GetLatePolicy() {
	case v1alpha1.LatePolicyCount:
		opts = append(opts, WithLatePolicy(watermark.DropAndCount))
	case v1alpha1.LatePolicySilent:
		opts = append(opts, WithLatePolicy(watermark.DropSilently))
	default:
		return nil, fmt.Errorf("unknown late policy %q", spec.GetLatePolicy())
	}
	return opts, nil
}
