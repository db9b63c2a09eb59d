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

package forward

import (
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/shared/logging"
	"github.com/numaproj/numacep/pkg/shared/util"
)

// options for forwarding the warnings
type options struct {
	// readBatchSize is the maximum number of warnings written to the sinks at once
	readBatchSize int
	// retryBackoff is the backoff of a failed sink write
	retryBackoff wait.Backoff
	// logger is used to pass the logger variable
	logger *zap.SugaredLogger
}

type Option func(*options) error

func DefaultOptions() *options {
	return &options{
		readBatchSize: 100,
		retryBackoff:  util.NewRetryBackoff(v1alpha1.DefaultSinkRetrySteps, v1alpha1.DefaultSinkRetryBackoff),
		logger:        logging.NewLogger(),
	}
}

// WithReadBatchSize sets the read batch size
func WithReadBatchSize(f int) Option {
	return func(o *options) error {
		if f <= 0 {
			return fmt.Errorf("read batch size must be positive, got %d", f)
		}
		o.readBatchSize = f
		return nil
	}
}

// WithRetryBackoff sets the backoff of failed writes
func WithRetryBackoff(b wait.Backoff) Option {
	return func(o *options) error {
		o.retryBackoff = b
		return nil
	}
}

// WithLogger is used to return logger information
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
