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

// Package sinks builds the warning sinks of a pipeline.
package sinks

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/sinks/kafka"
	"github.com/numaproj/numacep/pkg/sinks/logger"
	"github.com/numaproj/numacep/pkg/sinks/redis"
	"github.com/numaproj/numacep/pkg/sinks/sinker"
)

// New creates the sinks of the pipeline in order. On error the sinks created so far are closed.
func New(ctx context.Context, pipeline v1alpha1.Pipeline) ([]sinker.Sinker, error) {
	log := logging.FromContext(ctx)
	var result []sinker.Sinker
	for i, spec := range pipeline.Spec.Sinks {
		s, err := newSink(ctx, pipeline.Name, spec)
		if err != nil {
			for _, created := range result {
				err = multierr.Append(err, created.Close())
			}
			return nil, fmt.Errorf("failed to create sink %d %q, %w", i, spec.Name, err)
		}
		log.Infow("Created sink", "sink", s.GetName())
		result = append(result, s)
	}
	return result, nil
}

func newSink(ctx context.Context, pipelineName string, spec v1alpha1.SinkSpec) (sinker.Sinker, error) {
	log := logging.FromContext(ctx)
	switch {
	case spec.Log != nil:
		return logger.NewToLog(spec.Name, pipelineName, logger.WithLogger(log))
	case spec.Kafka != nil:
		return kafka.NewToKafka(spec.Name, pipelineName, spec.Kafka, kafka.WithLogger(log))
	case spec.Redis != nil:
		return redis.NewRedisSink(spec.Name, pipelineName, spec.Redis, redis.WithLogger(log))
	}
	return nil, fmt.Errorf("no sink type configured")
}
