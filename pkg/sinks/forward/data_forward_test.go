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
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numaproj/numacep/pkg/sinks/sinker"
	"github.com/numaproj/numacep/pkg/warning"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testSink struct {
	name     string
	mu       sync.Mutex
	failures int
	batches  [][]warning.Warning
	closed   bool
}

func (s *testSink) GetName() string {
	return s.name
}

func (s *testSink) Write(_ context.Context, warnings []warning.Warning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("sink unavailable")
	}
	s.batches = append(s.batches, append([]warning.Warning(nil), warnings...))
	return nil
}

func (s *testSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *testSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, b := range s.batches {
		for _, w := range b {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func buildWarnings(n int) []warning.Warning {
	warnings := make([]warning.Warning, n)
	for i := range warnings {
		warnings[i] = warning.Warning{ID: fmt.Sprintf("w-%d", i), Kind: "heat-wave", Key: "A"}
	}
	return warnings
}

var fastBackoff = wait.Backoff{Steps: 3, Duration: time.Millisecond, Factor: 1}

func TestNewDataForward(t *testing.T) {
	_, err := NewDataForward("p", make(chan warning.Warning), nil)
	assert.Error(t, err)
	_, err = NewDataForward("p", make(chan warning.Warning), []sinker.Sinker{&testSink{name: "s"}}, WithReadBatchSize(0))
	assert.Error(t, err)
}

func TestDataForward_AllSinksInOrder(t *testing.T) {
	from := make(chan warning.Warning, 10)
	a, b := &testSink{name: "a"}, &testSink{name: "b"}
	df, err := NewDataForward("p", from, []sinker.Sinker{a, b}, WithReadBatchSize(3), WithRetryBackoff(fastBackoff))
	require.NoError(t, err)
	stopped := df.Start()

	for _, w := range buildWarnings(10) {
		from <- w
	}
	close(from)
	<-stopped

	want := []string{"w-0", "w-1", "w-2", "w-3", "w-4", "w-5", "w-6", "w-7", "w-8", "w-9"}
	assert.Equal(t, want, a.ids())
	assert.Equal(t, want, b.ids())
	for _, batch := range a.batches {
		assert.LessOrEqual(t, len(batch), 3)
	}
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestDataForward_Retry(t *testing.T) {
	from := make(chan warning.Warning, 1)
	s := &testSink{name: "flaky", failures: 2}
	df, err := NewDataForward("p", from, []sinker.Sinker{s}, WithRetryBackoff(fastBackoff))
	require.NoError(t, err)
	stopped := df.Start()
	from <- buildWarnings(1)[0]
	close(from)
	<-stopped
	assert.Equal(t, []string{"w-0"}, s.ids())
}

func TestDataForward_RetriesExhausted(t *testing.T) {
	from := make(chan warning.Warning, 2)
	broken := &testSink{name: "broken", failures: 3}
	ok := &testSink{name: "ok"}
	df, err := NewDataForward("p", from, []sinker.Sinker{broken, ok}, WithRetryBackoff(fastBackoff), WithReadBatchSize(1))
	require.NoError(t, err)
	stopped := df.Start()
	for _, w := range buildWarnings(2) {
		from <- w
	}
	close(from)
	<-stopped
	// the first warning is dropped by the broken sink only
	assert.Equal(t, []string{"w-1"}, broken.ids())
	assert.Equal(t, []string{"w-0", "w-1"}, ok.ids())
}

func TestDataForward_Stop(t *testing.T) {
	from := make(chan warning.Warning, 5)
	s := &testSink{name: "s"}
	df, err := NewDataForward("p", from, []sinker.Sinker{s}, WithRetryBackoff(fastBackoff))
	require.NoError(t, err)
	for _, w := range buildWarnings(5) {
		from <- w
	}
	stopped := df.Start()
	require.Eventually(t, func() bool { return len(s.ids()) == 5 }, 5*time.Second, 10*time.Millisecond)
	df.Stop()
	<-stopped
	assert.True(t, df.IsShuttingDown())
	assert.True(t, s.closed)
}

func TestDataForward_ForceStop(t *testing.T) {
	from := make(chan warning.Warning)
	s := &testSink{name: "s", failures: 1 << 30}
	df, err := NewDataForward("p", from, []sinker.Sinker{s}, WithRetryBackoff(wait.Backoff{Steps: 1 << 30, Duration: 10 * time.Millisecond, Factor: 1}))
	require.NoError(t, err)
	stopped := df.Start()
	from <- buildWarnings(1)[0]
	df.ForceStop()
	<-stopped
	assert.Empty(t, s.ids())
	assert.Contains(t, df.Shutdown.String(), "forceShutdown:true")
}
