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

package http

import (
	"context"
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWithBufferSize(t *testing.T) {
	h := &httpSource{
		bufferSize: 10,
	}
	opt := WithBufferSize(100)
	assert.NoError(t, opt(h))
	assert.Equal(t, 100, h.bufferSize)
	assert.Error(t, WithBufferSize(-1)(h))
}

func newTestSource(t *testing.T, spec *v1alpha1.HTTPSource, opts ...Option) (*httpSource, *httpexpect.Expect) {
	t.Helper()
	spec.Addr = "127.0.0.1:0"
	h, err := New(context.Background(), "http-in", spec, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	scheme := "http://"
	client := &http.Client{Timeout: 5 * time.Second}
	if spec.TLS {
		scheme = "https://"
		client.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	e := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  scheme + h.Addr(),
		Client:   client,
		Reporter: httpexpect.NewRequireReporter(t),
	})
	return h, e
}

func collect(t *testing.T, h *httpSource, n int) []event.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := make(chan event.Event, n)
	go func() { _ = h.Read(ctx, out) }()
	var events []event.Event
	for len(events) < n {
		select {
		case ev := <-out:
			events = append(events, ev)
		case <-ctx.Done():
			t.Fatalf("received %d of %d events", len(events), n)
		}
	}
	return events
}

func TestHTTPSource_Events(t *testing.T) {
	h, e := newTestSource(t, &v1alpha1.HTTPSource{})
	assert.Equal(t, "http-in", h.GetName())

	e.GET("/livez").Expect().Status(http.StatusNoContent)

	e.POST("/api/v1/events").
		WithBytes([]byte(`{"key":"A","time":"2024-07-01T12:00:00Z","fields":{"temperature":42}}`)).
		Expect().Status(http.StatusAccepted).
		JSON().Object().Value("data").Object().Value("accepted").Number().IsEqual(1)

	e.POST("/api/v1/events").
		WithBytes([]byte(`[{"key":"A","time":1719921600000,"fields":{"temperature":43}},{"key":"B","time":"2024-07-03","fields":{"temperature":20}}]`)).
		Expect().Status(http.StatusAccepted).
		JSON().Object().Value("data").Object().Value("accepted").Number().IsEqual(2)

	events := collect(t, h, 3)
	assert.Equal(t, []string{"A", "A", "B"}, []string{events[0].Key, events[1].Key, events[2].Key})
	assert.Equal(t, 42.0, events[0].Fields["temperature"])
	assert.True(t, events[1].EventTime.Equal(time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC)))
}

func TestHTTPSource_BadRequest(t *testing.T) {
	_, e := newTestSource(t, &v1alpha1.HTTPSource{})

	e.POST("/api/v1/events").WithBytes([]byte(`not json`)).
		Expect().Status(http.StatusBadRequest).
		JSON().Object().Value("errMessage").String().NotEmpty()
	e.POST("/api/v1/events").WithBytes([]byte(``)).
		Expect().Status(http.StatusBadRequest)
	e.POST("/api/v1/events").WithBytes([]byte(`[{"key":"A","time":"2024-07-01"},{"key":"B"}]`)).
		Expect().Status(http.StatusBadRequest).
		JSON().Object().Value("errMessage").String().Contains("event 1")
}

func TestHTTPSource_Token(t *testing.T) {
	_, e := newTestSource(t, &v1alpha1.HTTPSource{Token: "secret"})
	body := []byte(`{"key":"A","time":"2024-07-01"}`)

	e.POST("/api/v1/events").WithBytes(body).Expect().Status(http.StatusForbidden)
	e.POST("/api/v1/events").WithHeader("Authorization", "Bearer wrong").WithBytes(body).
		Expect().Status(http.StatusForbidden)
	e.POST("/api/v1/events").WithHeader("Authorization", "Bearer secret").WithBytes(body).
		Expect().Status(http.StatusAccepted)
}

func TestHTTPSource_Warnings(t *testing.T) {
	_, e := newTestSource(t, &v1alpha1.HTTPSource{}, WithWarnings(func() interface{} {
		return []map[string]string{{"kind": "heat-wave", "key": "A"}}
	}))
	arr := e.GET("/api/v1/warnings").Expect().Status(http.StatusOK).
		JSON().Object().Value("data").Array()
	arr.Length().IsEqual(1)
	arr.Value(0).Object().Value("kind").IsEqual("heat-wave")

	_, e = newTestSource(t, &v1alpha1.HTTPSource{})
	e.GET("/api/v1/warnings").Expect().Status(http.StatusOK).
		JSON().Object().Value("data").Array().IsEmpty()
}

func TestHTTPSource_TLS(t *testing.T) {
	h, e := newTestSource(t, &v1alpha1.HTTPSource{TLS: true, AllowedOrigins: []string{"http://localhost:3000"}})
	e.POST("/api/v1/events").WithBytes([]byte(`{"key":"A","time":"2024-07-01"}`)).
		Expect().Status(http.StatusAccepted)
	e.GET("/api/v1/warnings").WithHeader("Origin", "http://localhost:3000").
		Expect().Status(http.StatusOK).
		Header("Access-Control-Allow-Origin").IsEqual("http://localhost:3000")
	assert.Len(t, collect(t, h, 1), 1)
}

func TestHTTPSource_Close(t *testing.T) {
	h, err := New(context.Background(), "http-in", &v1alpha1.HTTPSource{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.False(t, h.ready.Load())

	_, err = New(context.Background(), "nil", nil)
	assert.Error(t, err)
}
