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

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/metrics"
	redisclient "github.com/numaproj/numacep/pkg/shared/clients/redis"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/warning"
)

// RedisSink appends the warnings to a redis stream, one entry per warning.
type RedisSink struct {
	name         string
	pipelineName string
	stream       string
	maxLen       int64
	client       *redisclient.RedisClient
	logger       *zap.SugaredLogger
}

type Option func(sink *RedisSink) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(rs *RedisSink) error {
		rs.logger = log
		return nil
	}
}

// WithClient uses the given client instead of dialing RedisSink.URL.
func WithClient(c *redisclient.RedisClient) Option {
	return func(rs *RedisSink) error {
		rs.client = c
		return nil
	}
}

// NewRedisSink returns RedisSink type.
func NewRedisSink(name, pipelineName string, spec *v1alpha1.RedisSink, opts ...Option) (*RedisSink, error) {
	if spec == nil {
		return nil, errors.New("redis sink requires a spec")
	}
	rs := &RedisSink{
		name:         name,
		pipelineName: pipelineName,
		stream:       spec.Stream,
		maxLen:       spec.MaxLen,
	}
	if rs.stream == "" {
		rs.stream = v1alpha1.DefaultRedisStream
	}
	for _, o := range opts {
		if err := o(rs); err != nil {
			return nil, err
		}
	}
	if rs.logger == nil {
		rs.logger = logging.NewLogger()
	}
	rs.logger = rs.logger.With("sinkType", "redis", "stream", rs.stream)
	if rs.client == nil {
		c, err := redisclient.NewRedisClientFromURL(spec.URL)
		if err != nil {
			return nil, err
		}
		rs.client = c
	}
	return rs, nil
}

// GetName returns the name.
func (rs *RedisSink) GetName() string {
	return rs.name
}

// Write adds the warnings to the stream in one pipeline.
func (rs *RedisSink) Write(ctx context.Context, warnings []warning.Warning) error {
	labels := map[string]string{metrics.LabelSink: rs.name, metrics.LabelPipeline: rs.pipelineName}
	entries := make([]map[string]interface{}, 0, len(warnings))
	for _, w := range warnings {
		values, err := streamValues(w)
		if err != nil {
			redisSinkWriteErrors.With(labels).Inc()
			rs.logger.Errorw("Failed to encode warning, skipping", zap.String("id", w.ID), zap.Error(err))
			continue
		}
		entries = append(entries, values)
	}
	if len(entries) == 0 {
		return nil
	}
	_, err := rs.client.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, values := range entries {
			pipe.XAdd(ctx, redisclient.StreamArgs(rs.stream, rs.maxLen, values))
		}
		return nil
	})
	if err != nil {
		redisSinkWriteErrors.With(labels).Add(float64(len(entries)))
		return fmt.Errorf("failed to add %d warnings to stream %q, %w", len(entries), rs.stream, err)
	}
	redisSinkWriteCount.With(labels).Add(float64(len(entries)))
	return nil
}

// streamValues lays out a warning as stream entry fields, the full warning is kept as JSON under "payload".
func streamValues(w warning.Warning) (map[string]interface{}, error) {
	payload, err := warning.Marshal(w)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":       w.ID,
		"kind":     w.Kind,
		"key":      w.Key,
		"severity": w.Severity,
		"time":     w.Time.UTC().Format(time.RFC3339Nano),
		"payload":  string(payload),
	}, nil
}

func (rs *RedisSink) Close() error {
	rs.logger.Info("Closing redis client...")
	return rs.client.Close()
}
