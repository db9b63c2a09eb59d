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

// Package file reads JSON lines events from a file or stdin.
package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/sources/sourcer"
)

// maxLineSize is the longest line accepted, longer lines stop the read with an error.
const maxLineSize = 1024 * 1024

// Stdin is the path reading from the standard input.
const Stdin = "-"

type fileSource struct {
	name      string
	reader    io.ReadCloser
	closeOnce sync.Once
	closeErr  error
	logger    *zap.SugaredLogger
}

type Option func(*fileSource) error

// WithReader reads from r instead of the configured path.
func WithReader(r io.ReadCloser) Option {
	return func(o *fileSource) error {
		o.reader = r
		return nil
	}
}

// New opens the configured file, "-" is stdin.
func New(ctx context.Context, name string, spec *v1alpha1.FileSource, opts ...Option) (*fileSource, error) {
	f := &fileSource{
		name:   name,
		logger: logging.FromContext(ctx).With("source", name),
	}
	for _, o := range opts {
		if err := o(f); err != nil {
			return nil, err
		}
	}
	if f.reader != nil {
		return f, nil
	}
	if spec == nil || spec.Path == "" {
		return nil, fmt.Errorf("file source %q requires a path", name)
	}
	if spec.Path == Stdin {
		f.reader = io.NopCloser(os.Stdin)
		return f, nil
	}
	r, err := os.Open(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file source %q, %w", spec.Path, err)
	}
	f.reader = r
	return f, nil
}

// GetName returns the name of the source.
func (f *fileSource) GetName() string {
	return f.name
}

// Read decodes one event per line, empty lines are skipped. It returns nil at the end of the file or once ctx is
// done, even when the input is idle.
func (f *fileSource) Read(ctx context.Context, out chan<- event.Event) error {
	lines := make(chan []byte)
	stop := make(chan struct{})
	defer close(stop)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f.reader)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			b := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- b:
			case <-stop:
				return
			}
		}
		scanErr = scanner.Err()
	}()

	labels := map[string]string{metrics.LabelSource: f.name}
	line := 0
	for {
		select {
		case <-ctx.Done():
			// unblocks a pending read on files and pipes, a pending read on stdin is abandoned
			if err := f.Close(); err != nil {
				f.logger.Debugw("Failed to close the reader", zap.Error(err))
			}
			f.logger.Infow("File source stopped", zap.Int("lines", line))
			return nil
		case b, ok := <-lines:
			if !ok {
				if scanErr != nil {
					return fmt.Errorf("failed to read file source %q at line %d, %w", f.name, line+1, scanErr)
				}
				f.logger.Infow("File source exhausted", zap.Int("lines", line))
				return nil
			}
			line++
			if len(b) == 0 {
				continue
			}
			e, err := event.Unmarshal(b)
			if err != nil {
				sourcer.DecodeErrors.With(labels).Inc()
				f.logger.Warnw("Skipping undecodable line", zap.Int("line", line), zap.Error(err))
				continue
			}
			if err := sourcer.Forward(ctx, out, e); err != nil {
				return nil
			}
			sourcer.ReadCount.With(labels).Inc()
		}
	}
}

// Close closes the underlying reader, it is safe to call more than once.
func (f *fileSource) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.reader.Close()
	})
	return f.closeErr
}
