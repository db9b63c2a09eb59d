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

// Package sinker defines the interface every warning sink implements.
package sinker

import (
	"context"
	"io"

	"github.com/numaproj/numacep/pkg/warning"
)

// Sinker writes warnings to an external system.
type Sinker interface {
	io.Closer
	// GetName returns the name of the sink.
	GetName() string
	// Write writes a batch of warnings in order. An error means the whole batch can be retried.
	Write(ctx context.Context, warnings []warning.Warning) error
}
