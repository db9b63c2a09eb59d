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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/warning"
)

// ToLog prints the warnings with the logger.
type ToLog struct {
	name         string
	pipelineName string
	logger       *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(name, pipelineName string, opts ...Option) (*ToLog, error) {
	toLog := &ToLog{
		name:         name,
		pipelineName: pipelineName,
	}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.With("sinkType", "log", "sink", name)
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

// Write writes to the log.
func (t *ToLog) Write(_ context.Context, warnings []warning.Warning) error {
	for _, w := range warnings {
		logSinkWriteCount.With(map[string]string{metrics.LabelSink: t.name, metrics.LabelPipeline: t.pipelineName}).Inc()
		t.logger.Infow("Warning",
			zap.String("id", w.ID),
			zap.String("kind", w.Kind),
			zap.String("pattern", w.Pattern),
			zap.String("key", w.Key),
			zap.String("severity", w.Severity),
			zap.Time("time", w.Time),
			zap.Any("values", w.Values),
		)
	}
	return nil
}

func (t *ToLog) Close() error {
	return nil
}
