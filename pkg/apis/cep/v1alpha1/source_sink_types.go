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

type SourceSpec struct {
	// +optional
	File *FileSource `json:"file,omitempty"`
	// +optional
	Nats *NatsSource `json:"nats,omitempty"`
	// +optional
	HTTP *HTTPSource `json:"http,omitempty"`
}

// FileSource reads JSON lines events from a file, "-" is stdin.
type FileSource struct {
	Path string `json:"path"`
}

// NatsSource subscribes to a core NATS subject carrying JSON events.
type NatsSource struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
	// +optional
	Queue string `json:"queue,omitempty"`
}

// HTTPSource accepts JSON events over HTTP.
type HTTPSource struct {
	// +optional
	Addr string `json:"addr,omitempty"`
	// TLS serves HTTPS with a self-signed certificate.
	// +optional
	TLS bool `json:"tls,omitempty"`
	// Token, when set, is required as a bearer token on the ingest endpoint.
	// +optional
	Token string `json:"token,omitempty"`
	// AllowedOrigins enables CORS for the given origins.
	// +optional
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

type SinkSpec struct {
	Name string `json:"name"`
	// +optional
	Log *LogSink `json:"log,omitempty"`
	// +optional
	Kafka *KafkaSink `json:"kafka,omitempty"`
	// +optional
	Redis *RedisSink `json:"redis,omitempty"`
}

// LogSink prints the warnings with the logger.
type LogSink struct{}

// KafkaSink produces the warnings to a Kafka topic, keyed by the warning key.
type KafkaSink struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	// Config is the sarama configuration in YAML.
	// +optional
	Config string `json:"config,omitempty"`
}

// RedisSink appends the warnings to a Redis stream.
type RedisSink struct {
	URL string `json:"url"`
	// +optional
	Stream string `json:"stream,omitempty"`
	// MaxLen caps the stream length approximately, 0 means unbounded.
	// +optional
	MaxLen int64 `json:"maxLen,omitempty"`
}

func (s SourceSpec) count() int {
	n := 0
	if s.File != nil {
		n++
	}
	if s.Nats != nil {
		n++
	}
	if s.HTTP != nil {
		n++
	}
	return n
}

func (s SinkSpec) count() int {
	n := 0
	if s.Log != nil {
		n++
	}
	if s.Kafka != nil {
		n++
	}
	if s.Redis != nil {
		n++
	}
	return n
}
