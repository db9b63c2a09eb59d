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

package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/shared/util"
	"github.com/numaproj/numacep/pkg/warning"
)

// ToKafka produces the warnings to a kafka topic, keyed by the warning key.
type ToKafka struct {
	name         string
	pipelineName string
	producer     sarama.SyncProducer
	topic        string
	log          *zap.SugaredLogger
}

type Option func(*ToKafka) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToKafka) error {
		t.log = log
		return nil
	}
}

// WithProducer uses the given producer instead of connecting to the brokers.
func WithProducer(p sarama.SyncProducer) Option {
	return func(t *ToKafka) error {
		t.producer = p
		return nil
	}
}

// NewToKafka returns ToKafka type.
func NewToKafka(name, pipelineName string, kafkaSink *v1alpha1.KafkaSink, opts ...Option) (*ToKafka, error) {
	if kafkaSink == nil {
		return nil, errors.New("kafka sink requires a spec")
	}
	toKafka := &ToKafka{
		name:         name,
		pipelineName: pipelineName,
		topic:        kafkaSink.Topic,
	}
	for _, o := range opts {
		if err := o(toKafka); err != nil {
			return nil, err
		}
	}
	if toKafka.log == nil {
		toKafka.log = logging.NewLogger()
	}
	toKafka.log = toKafka.log.With("sinkType", "kafka").With("topic", kafkaSink.Topic)
	if toKafka.producer != nil {
		return toKafka, nil
	}
	config, err := util.GetSaramaConfigFromYAMLString(kafkaSink.Config)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewSyncProducer(kafkaSink.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer. %w", err)
	}
	toKafka.producer = producer
	return toKafka, nil
}

// GetName returns the name.
func (tk *ToKafka) GetName() string {
	return tk.name
}

// Write sends the warnings as one batch, keyed by the warning key so the order per key is kept in a partition.
func (tk *ToKafka) Write(_ context.Context, warnings []warning.Warning) error {
	labels := map[string]string{metrics.LabelSink: tk.name, metrics.LabelPipeline: tk.pipelineName}
	messages := make([]*sarama.ProducerMessage, 0, len(warnings))
	for _, w := range warnings {
		payload, err := warning.Marshal(w)
		if err != nil {
			// an unencodable warning can never be written, it is not retried
			kafkaSinkWriteErrors.With(labels).Inc()
			tk.log.Errorw("Failed to encode warning, skipping", zap.String("id", w.ID), zap.Error(err))
			continue
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: tk.topic,
			Key:   sarama.StringEncoder(w.Key),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte("kind"), Value: []byte(w.Kind)},
				{Key: []byte("id"), Value: []byte(w.ID)},
			},
		})
	}
	if len(messages) == 0 {
		return nil
	}
	if err := tk.producer.SendMessages(messages); err != nil {
		var perrs sarama.ProducerErrors
		if errors.As(err, &perrs) {
			kafkaSinkWriteErrors.With(labels).Add(float64(len(perrs)))
			kafkaSinkWriteCount.With(labels).Add(float64(len(messages) - len(perrs)))
		} else {
			kafkaSinkWriteErrors.With(labels).Add(float64(len(messages)))
		}
		return fmt.Errorf("failed to send %d warnings to kafka, %w", len(messages), err)
	}
	kafkaSinkWriteCount.With(labels).Add(float64(len(messages)))
	return nil
}

func (tk *ToKafka) Close() error {
	tk.log.Info("Closing kafka producer...")
	return tk.producer.Close()
}
