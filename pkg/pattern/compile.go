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

package pattern

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/cfgerr"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/shared/expr"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

// FromSpec builds a validated Definition from its serialized form. Stage conditions are compiled to
// predicates; a condition failing at runtime, e.g. on a missing field, is not satisfied.
func FromSpec(ctx context.Context, spec v1alpha1.PatternSpec) (*Definition, error) {
	log := logging.FromContext(ctx).With("pattern", spec.Name)
	def := &Definition{
		Name:   spec.Name,
		Within: spec.GetWithin(),
		Stages: make([]Stage, 0, len(spec.Stages)),
	}
	var errs error
	for i, s := range spec.Stages {
		field := fmt.Sprintf("stages[%d]", i)
		contiguity, err := ParseContiguity(s.Contiguity)
		if err != nil {
			errs = multierr.Append(errs, cfgerr.New(field+".contiguity", err.Error()))
		}
		predicate, err := compileCondition(log.With("stage", s.Name), s.Condition)
		if err != nil {
			errs = multierr.Append(errs, cfgerr.New(field+".condition", err.Error()))
		}
		def.Stages = append(def.Stages, Stage{
			Name:       s.Name,
			Predicate:  predicate,
			Contiguity: contiguity,
		})
	}
	if errs != nil {
		return nil, errs
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func compileCondition(log *zap.SugaredLogger, condition string) (Predicate, error) {
	if condition == "" {
		return nil, fmt.Errorf("condition is required")
	}
	program, err := expr.Compile(condition)
	if err != nil {
		return nil, err
	}
	return func(e event.Event) bool {
		ok, err := expr.EvalBool(program, e)
		if err != nil {
			log.Debugw("Condition not satisfied", "key", e.Key, "id", e.ID, "error", err)
			return false
		}
		return ok
	}, nil
}
