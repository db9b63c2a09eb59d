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

// Package forward moves the warnings from the engine output to the sinks.
package forward

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/sinks/sinker"
	"github.com/numaproj/numacep/pkg/warning"
)

// DataForward reads the warnings in batches and writes every batch to all the sinks in order.
type DataForward struct {
	// ctx is cancelled on Stop
	ctx      context.Context
	cancelFn context.CancelFunc
	// writeCtx is cancelled on ForceStop only, so a graceful stop still finishes the writes
	writeCtx     context.Context
	writeCancel  context.CancelFunc
	from         <-chan warning.Warning
	sinks        []sinker.Sinker
	pipelineName string
	opts         options
	Shutdown
}

// NewDataForward creates a new sink forwarder.
func NewDataForward(pipelineName string, from <-chan warning.Warning, sinks []sinker.Sinker, opts ...Option) (*DataForward, error) {
	if len(sinks) == 0 {
		return nil, errors.New("at least one sink is required")
	}
	options := DefaultOptions()
	for _, o := range opts {
		if err := o(options); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	writeCtx, writeCancel := context.WithCancel(context.Background())
	return &DataForward{
		ctx:          ctx,
		cancelFn:     cancel,
		writeCtx:     writeCtx,
		writeCancel:  writeCancel,
		from:         from,
		sinks:        sinks,
		pipelineName: pipelineName,
		opts:         *options,
		Shutdown: Shutdown{
			rwLock: new(sync.RWMutex),
		},
	}, nil
}

// Start forwards until the input is closed or a stop is requested, then closes the sinks. The returned channel is
// closed once the forwarder is done.
func (df *DataForward) Start() <-chan struct{} {
	log := df.opts.logger
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		log.Info("Starting sink forwarder...")
		for {
			batch, more := df.readBatch()
			if len(batch) > 0 {
				df.forwardAChunk(batch)
			}
			if !more {
				break
			}
		}
		log.Infow("Sink forwarder stopped", zap.String("shutdown", df.Shutdown.String()))
		for _, s := range df.sinks {
			if err := s.Close(); err != nil {
				log.Errorw("Failed to close sink, shutdown anyways...", zap.Error(err), zap.String("sink", s.GetName()))
			} else {
				log.Infow("Closed sink", zap.String("sink", s.GetName()))
			}
		}
		df.writeCancel()
	}()
	return stopped
}

// readBatch blocks for the first warning, then takes what is already available up to the batch size. The boolean
// is false when there is nothing more to read.
func (df *DataForward) readBatch() ([]warning.Warning, bool) {
	batch := make([]warning.Warning, 0, df.opts.readBatchSize)
	select {
	case w, ok := <-df.from:
		if !ok {
			return batch, false
		}
		batch = append(batch, w)
	case <-df.ctx.Done():
		if df.isForced() {
			return batch, false
		}
		drained, open := df.fill(batch)
		// keep going while the stop finds a full batch waiting
		return drained, open && len(drained) == df.opts.readBatchSize
	}
	return df.fill(batch)
}

func (df *DataForward) fill(batch []warning.Warning) ([]warning.Warning, bool) {
	for len(batch) < df.opts.readBatchSize {
		select {
		case w, ok := <-df.from:
			if !ok {
				return batch, false
			}
			batch = append(batch, w)
		default:
			return batch, true
		}
	}
	return batch, true
}

func (df *DataForward) forwardAChunk(batch []warning.Warning) {
	readWarningsCount.With(map[string]string{metrics.LabelPipeline: df.pipelineName}).Add(float64(len(batch)))
	df.opts.logger.Debugw("Forwarding warnings", zap.Int("count", len(batch)))
	for _, s := range df.sinks {
		labels := map[string]string{metrics.LabelPipeline: df.pipelineName, metrics.LabelSink: s.GetName()}
		start := time.Now()
		if err := df.writeToSink(s, batch); err != nil {
			df.opts.logger.Errorw("Dropping warnings, failed to write to sink", zap.String("sink", s.GetName()), zap.Int("count", len(batch)), zap.Error(err))
			dropWarningsCount.With(labels).Add(float64(len(batch)))
			continue
		}
		writeWarningsCount.With(labels).Add(float64(len(batch)))
		writeProcessingTime.With(labels).Observe(float64(time.Since(start).Microseconds()))
	}
}

// writeToSink retries the whole batch with the configured backoff.
func (df *DataForward) writeToSink(s sinker.Sinker, batch []warning.Warning) error {
	attempt := 0
	var lastErr error
	err := wait.ExponentialBackoffWithContext(df.writeCtx, df.opts.retryBackoff, func(ctx context.Context) (bool, error) {
		attempt++
		if lastErr = s.Write(ctx, batch); lastErr != nil {
			writeWarningsError.With(map[string]string{metrics.LabelPipeline: df.pipelineName, metrics.LabelSink: s.GetName()}).Inc()
			df.opts.logger.Warnw("Failed to write to sink, retrying", zap.String("sink", s.GetName()), zap.Int("attempt", attempt), zap.Error(lastErr))
			return false, nil
		}
		return true, nil
	})
	if err != nil && lastErr != nil {
		return fmt.Errorf("giving up after %d attempts, %w", attempt, lastErr)
	}
	return err
}
