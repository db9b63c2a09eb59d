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

// Package sourcer defines the interface every event source implements.
package sourcer

import (
	"context"
	"io"

	"github.com/numaproj/numacep/pkg/event"
)

// SourceReader reads events from an external system.
type SourceReader interface {
	io.Closer
	// GetName returns the name of the source.
	GetName() string
	// Read delivers the decoded events to out until the source is exhausted or ctx is done. A record which can
	// not be decoded is logged and skipped. Read does not close out.
	Read(ctx context.Context, out chan<- event.Event) error
}

// Forward sends the event to out unless ctx is done first.
func Forward(ctx context.Context, out chan<- event.Event, e event.Event) error {
	select {
	case out <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
