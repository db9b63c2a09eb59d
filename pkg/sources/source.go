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

// Package sources builds the event source of a pipeline.
package sources

import (
	"context"
	"fmt"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/sources/file"
	"github.com/numaproj/numacep/pkg/sources/http"
	"github.com/numaproj/numacep/pkg/sources/nats"
	"github.com/numaproj/numacep/pkg/sources/sourcer"
)

type options struct {
	bufferSize int
	warnings   http.WarningsFunc
}

type Option func(*options)

// WithBufferSize sets the buffer of the push based sources.
func WithBufferSize(s int) Option {
	return func(o *options) {
		o.bufferSize = s
	}
}

// WithWarnings sets the provider of the latest warnings served by the http source.
func WithWarnings(f http.WarningsFunc) Option {
	return func(o *options) {
		o.warnings = f
	}
}

// New creates the configured source. The source is named after its type.
func New(ctx context.Context, spec v1alpha1.SourceSpec, opts ...Option) (sourcer.SourceReader, error) {
	o := &options{bufferSize: 1000}
	for _, opt := range opts {
		opt(o)
	}
	log := logging.FromContext(ctx)
	var (
		src sourcer.SourceReader
		err error
	)
	switch {
	case spec.File != nil:
		log.Infow("Creating file source", "path", spec.File.Path)
		src, err = file.New(ctx, "file", spec.File)
	case spec.Nats != nil:
		log.Infow("Creating nats source", "url", spec.Nats.URL, "subject", spec.Nats.Subject)
		src, err = nats.New(ctx, "nats", spec.Nats, nats.WithBufferSize(o.bufferSize))
	case spec.HTTP != nil:
		log.Infow("Creating http source", "addr", spec.HTTP.Addr)
		src, err = http.New(ctx, "http", spec.HTTP, http.WithBufferSize(o.bufferSize), http.WithWarnings(o.warnings))
	default:
		return nil, fmt.Errorf("invalid source spec, no source type configured")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create source, %w", err)
	}
	return src, nil
}
