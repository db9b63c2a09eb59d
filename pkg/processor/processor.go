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

// Package processor runs a pipeline end to end: source, engine, sink forwarder and the metrics server.
package processor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/engine"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/sinks"
	"github.com/numaproj/numacep/pkg/sinks/forward"
	"github.com/numaproj/numacep/pkg/sinks/sinker"
	"github.com/numaproj/numacep/pkg/sources"
)

type PipelineProcessor struct {
	Pipeline    *v1alpha1.Pipeline
	MetricsAddr string
	Pprof       bool
}

// Start runs the pipeline until the source is exhausted or ctx is done. The engine is then drained and the pending
// warnings are written to the sinks before it returns.
func (pp *PipelineProcessor) Start(ctx context.Context) error {
	log := logging.FromContext(ctx).With("pipeline", pp.Pipeline.Name)
	ctx = logging.WithLogger(ctx, log)

	eng, err := engine.FromPipeline(ctx, *pp.Pipeline)
	if err != nil {
		return fmt.Errorf("failed to create engine, %w", err)
	}
	sinkers, err := sinks.New(ctx, *pp.Pipeline)
	if err != nil {
		return err
	}
	df, err := forward.NewDataForward(pp.Pipeline.Name, eng.Output(), sinkers, forward.WithLogger(log))
	if err != nil {
		return closeAll(err, sinkers)
	}
	bufferSize := v1alpha1.DefaultLaneBufferSize
	if l := pp.Pipeline.Spec.Limits; l != nil && l.LaneBufferSize > 0 {
		bufferSize = l.LaneBufferSize
	}
	src, err := sources.New(ctx, pp.Pipeline.Spec.Source,
		sources.WithBufferSize(bufferSize),
		sources.WithWarnings(func() interface{} { return eng.Recent() }))
	if err != nil {
		return closeAll(err, sinkers)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Errorw("Failed to close source", zap.Error(err))
		}
	}()

	addr := pp.MetricsAddr
	if addr == "" {
		addr = v1alpha1.DefaultMetricsAddr
	}
	ms := metrics.NewMetricsServer(metrics.WithAddr(addr), metrics.WithPprof(pp.Pprof), metrics.WithHealthChecker(eng))
	_, shutdown, err := ms.Start(ctx)
	if err != nil {
		return closeAll(err, sinkers)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Errorw("Failed to shutdown metrics server", zap.Error(err))
		}
	}()

	stopped := df.Start()
	events := make(chan event.Event, bufferSize)
	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		readErr <- src.Read(readCtx, events)
	}()

	log.Infow("Start processing events", zap.String("source", src.GetName()), zap.Int("sinks", len(sinkers)))
	runErr := eng.Run(ctx, events)
	cancelRead()
	err = multierr.Combine(runErr, <-readErr)
	<-stopped
	s := eng.Stats()
	log.Infow("Pipeline processing finished",
		zap.Int64("ingested", s.Ingested),
		zap.Int64("filtered", s.Filtered),
		zap.Int64("late", s.Late),
		zap.Int64("windows", s.Windows),
		zap.Int64("matches", s.Matches),
		zap.Int64("warnings", s.Warnings),
		zap.Int64("factoryFailures", s.FactoryFailures))
	return err
}

func closeAll(err error, closers []sinker.Sinker) error {
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
