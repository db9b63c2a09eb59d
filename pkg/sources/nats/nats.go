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

// Package nats reads JSON events from a core NATS subject.
package nats

import (
	"context"
	"fmt"

	natslib "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	natsclient "github.com/numaproj/numacep/pkg/shared/clients/nats"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/sources/sourcer"
)

type natsSource struct {
	name       string
	logger     *zap.SugaredLogger
	client     *natsclient.Client
	sub        *natslib.Subscription
	bufferSize int
	natsOpts   []natslib.Option
	messages   chan event.Event
	done       chan struct{}
}

type Option func(*natsSource) error

// WithBufferSize sets the buffer size for storing the messages from nats
func WithBufferSize(s int) Option {
	return func(o *natsSource) error {
		if s < 0 {
			return fmt.Errorf("buffer size can not be negative, got %d", s)
		}
		o.bufferSize = s
		return nil
	}
}

// WithNatsOptions adds connection options, e.g. credentials.
func WithNatsOptions(opts ...natslib.Option) Option {
	return func(o *natsSource) error {
		o.natsOpts = append(o.natsOpts, opts...)
		return nil
	}
}

// New connects to the server and subscribes to the subject of the spec.
func New(ctx context.Context, name string, spec *v1alpha1.NatsSource, opts ...Option) (*natsSource, error) {
	if spec == nil || spec.URL == "" || spec.Subject == "" {
		return nil, fmt.Errorf("nats source %q requires url and subject", name)
	}
	n := &natsSource{
		name:       name,
		bufferSize: 1000,
		logger:     logging.FromContext(ctx).With("source", name, "subject", spec.Subject),
	}
	for _, o := range opts {
		if err := o(n); err != nil {
			return nil, err
		}
	}
	n.messages = make(chan event.Event, n.bufferSize)
	n.done = make(chan struct{})

	n.logger.Info("Connecting to nats service...")
	client, err := natsclient.NewNATSClient(logging.WithLogger(ctx, n.logger), spec.URL, n.natsOpts...)
	if err != nil {
		return nil, err
	}
	n.client = client
	labels := map[string]string{metrics.LabelSource: name}
	sub, err := client.QueueSubscribe(spec.Subject, spec.Queue, func(msg *natslib.Msg) {
		e, err := event.Unmarshal(msg.Data)
		if err != nil {
			sourcer.DecodeErrors.With(labels).Inc()
			n.logger.Warnw("Skipping undecodable message", zap.Error(err))
			return
		}
		select {
		case n.messages <- e:
		case <-n.done:
		}
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to QueueSubscribe nats messages, %w", err)
	}
	n.sub = sub
	return n, nil
}

// GetName returns the name of the source.
func (ns *natsSource) GetName() string {
	return ns.name
}

// Read forwards the received events until ctx is done, a subscription never runs out of events.
func (ns *natsSource) Read(ctx context.Context, out chan<- event.Event) error {
	labels := map[string]string{metrics.LabelSource: ns.name}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-ns.messages:
			if err := sourcer.Forward(ctx, out, e); err != nil {
				return nil
			}
			sourcer.ReadCount.With(labels).Inc()
		}
	}
}

func (ns *natsSource) Close() error {
	ns.logger.Info("Shutting down nats source...")
	close(ns.done)
	if err := ns.sub.Unsubscribe(); err != nil {
		ns.logger.Errorw("Failed to unsubscribe nats subscription", zap.Error(err))
	}
	ns.client.Close()
	ns.logger.Info("Nats source shutdown")
	return nil
}
