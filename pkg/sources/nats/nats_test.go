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

package nats

import (
	"context"
	"fmt"
	"testing"
	"time"

	natslib "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	natstest "github.com/numaproj/numacep/pkg/shared/clients/nats/test"
)

func readN(t *testing.T, ns *natsSource, n int) []event.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := make(chan event.Event)
	done := make(chan error, 1)
	go func() {
		done <- ns.Read(ctx, out)
	}()
	var events []event.Event
	for len(events) < n {
		select {
		case e := <-out:
			events = append(events, e)
		case <-ctx.Done():
			t.Fatalf("Failed reading expected events in the time period, only got %d", len(events))
		}
	}
	cancel()
	assert.NoError(t, <-done)
	return events
}

func Test_Single(t *testing.T) {
	server := natstest.RunNatsServer(t)
	defer natstest.ShutdownNatsServer(t, server)
	url := server.ClientURL()

	ns, err := New(context.Background(), "test-source", &v1alpha1.NatsSource{URL: url, Subject: "test", Queue: "test-queue"}, WithBufferSize(10))
	require.NoError(t, err)
	assert.Equal(t, "test-source", ns.GetName())
	defer func() { _ = ns.Close() }()

	nc, err := natslib.Connect(url)
	require.NoError(t, err)
	defer nc.Close()
	require.NoError(t, nc.Publish("test", []byte("not json")))
	for i := 1; i <= 3; i++ {
		require.NoError(t, nc.Publish("test", []byte(fmt.Sprintf(`{"key":"A","time":%d,"fields":{"temperature":%d}}`, i*1000, 40+i))))
	}
	require.NoError(t, nc.Flush())

	events := readN(t, ns, 3)
	for i, e := range events {
		assert.Equal(t, "A", e.Key)
		assert.Equal(t, int64((i+1)*1000), e.EventTime.UnixMilli())
	}
}

func Test_Multiple(t *testing.T) {
	server := natstest.RunNatsServer(t)
	defer natstest.ShutdownNatsServer(t, server)
	url := server.ClientURL()
	spec := &v1alpha1.NatsSource{URL: url, Subject: "test", Queue: "test-queue"}

	ns1, err := New(context.Background(), "source-1", spec)
	require.NoError(t, err)
	defer func() { _ = ns1.Close() }()
	ns2, err := New(context.Background(), "source-2", spec)
	require.NoError(t, err)
	defer func() { _ = ns2.Close() }()

	nc, err := natslib.Connect(url)
	require.NoError(t, err)
	defer nc.Close()
	for i := 0; i < 5; i++ {
		require.NoError(t, nc.Publish("test", []byte(fmt.Sprintf(`{"key":"A","time":%d}`, i+1))))
	}
	require.NoError(t, nc.Flush())

	// the queue group delivers every message to exactly one member
	read := 0
	timeout := time.After(10 * time.Second)
	for read < 5 {
		select {
		case <-ns1.messages:
			read++
		case <-ns2.messages:
			read++
		case <-timeout:
			t.Fatalf("Failed reading expected messages in the time period, only got %d", read)
		}
	}
	select {
	case <-ns1.messages:
		t.Fatal("unexpected duplicate")
	case <-ns2.messages:
		t.Fatal("unexpected duplicate")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), "x", &v1alpha1.NatsSource{URL: "nats://127.0.0.1:1"})
	assert.Error(t, err)
	_, err = New(context.Background(), "x", &v1alpha1.NatsSource{URL: "nats://127.0.0.1:1", Subject: "s"}, WithBufferSize(-1))
	assert.Error(t, err)
	_, err = New(context.Background(), "x", &v1alpha1.NatsSource{URL: "nats://127.0.0.1:1", Subject: "s"})
	assert.Error(t, err)
}
