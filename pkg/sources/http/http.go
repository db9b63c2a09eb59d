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

// Package http accepts JSON events over HTTP and serves the latest warnings.
//
//	POST /api/v1/events    a single event object or an array of events
//	GET  /api/v1/warnings  the latest warnings, newest first
//	GET  /livez            liveness
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/event"
	"github.com/numaproj/numacep/pkg/metrics"
	"github.com/numaproj/numacep/pkg/shared/logging"
	sharedtls "github.com/numaproj/numacep/pkg/shared/tls"
	"github.com/numaproj/numacep/pkg/sources/sourcer"
)

// APIResponse is the body of every API response.
type APIResponse struct {
	// ErrMessage provides more detailed error information. If API call succeeds, the ErrMessage is nil.
	ErrMessage *string `json:"errMessage,omitempty"`
	// Data is the response body.
	Data interface{} `json:"data"`
}

// NewAPIResponse creates a new APIResponse.
func NewAPIResponse(errMessage *string, data interface{}) APIResponse {
	return APIResponse{
		ErrMessage: errMessage,
		Data:       data,
	}
}

func errorResponse(c *gin.Context, status int, err error) {
	msg := err.Error()
	c.JSON(status, NewAPIResponse(&msg, nil))
}

// WarningsFunc returns the latest warnings.
type WarningsFunc func() interface{}

type httpSource struct {
	name       string
	spec       v1alpha1.HTTPSource
	ready      *atomic.Bool
	bufferSize int
	messages   chan event.Event
	warnings   WarningsFunc
	logger     *zap.SugaredLogger
	router     *gin.Engine
	server     *http.Server
	addr       string
	done       chan struct{}
}

type Option func(*httpSource) error

// WithBufferSize sets the number of events buffered between the handler and Read.
func WithBufferSize(s int) Option {
	return func(o *httpSource) error {
		if s < 0 {
			return fmt.Errorf("buffer size can not be negative, got %d", s)
		}
		o.bufferSize = s
		return nil
	}
}

// WithWarnings sets the provider of the warnings endpoint.
func WithWarnings(f WarningsFunc) Option {
	return func(o *httpSource) error {
		o.warnings = f
		return nil
	}
}

// New builds the router and starts serving on the address of the spec.
func New(ctx context.Context, name string, spec *v1alpha1.HTTPSource, opts ...Option) (*httpSource, error) {
	if spec == nil {
		return nil, fmt.Errorf("http source %q requires a spec", name)
	}
	h := &httpSource{
		name:       name,
		spec:       *spec,
		ready:      atomic.NewBool(false),
		bufferSize: 1000,
		logger:     logging.FromContext(ctx).With("source", name),
		done:       make(chan struct{}),
	}
	if h.spec.Addr == "" {
		h.spec.Addr = v1alpha1.DefaultHTTPSourceAddr
	}
	for _, o := range opts {
		if err := o(h); err != nil {
			return nil, err
		}
	}
	h.messages = make(chan event.Event, h.bufferSize)
	h.router = h.routes()

	ln, err := net.Listen("tcp", h.spec.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %q, %w", h.spec.Addr, err)
	}
	h.addr = ln.Addr().String()
	h.server = &http.Server{Handler: h.router, ReadHeaderTimeout: 10 * time.Second}
	if h.spec.TLS {
		c, err := sharedtls.ServerConfig()
		if err != nil {
			_ = ln.Close()
			return nil, err
		}
		h.server.TLSConfig = c
	}
	go func() {
		h.logger.Infow("Starting http source server", zap.String("addr", h.addr), zap.Bool("tls", h.spec.TLS))
		var err error
		if h.spec.TLS {
			err = h.server.ServeTLS(ln, "", "")
		} else {
			err = h.server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Errorw("Failed to serve http source server", zap.Error(err))
		}
		h.logger.Info("Shutdown http source server")
	}()
	h.ready.Store(true)
	return h, nil
}

func (h *httpSource) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{"/livez"}}), gin.Recovery())
	if len(h.spec.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: h.spec.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "HEAD"},
			AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		}))
	}
	router.GET("/livez", func(c *gin.Context) {
		if !h.ready.Load() {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.Status(http.StatusNoContent)
	})
	v1 := router.Group("/api/v1")
	v1.POST("/events", h.authorize, h.ingest)
	v1.GET("/warnings", func(c *gin.Context) {
		var data interface{} = []interface{}{}
		if h.warnings != nil {
			data = h.warnings()
		}
		c.JSON(http.StatusOK, NewAPIResponse(nil, data))
	})
	return router
}

func (h *httpSource) authorize(c *gin.Context) {
	if h.spec.Token != "" && c.GetHeader("Authorization") != "Bearer "+h.spec.Token {
		errorResponse(c, http.StatusForbidden, errors.New("request not authorized"))
		c.Abort()
		return
	}
	c.Next()
}

func (h *httpSource) ingest(c *gin.Context) {
	if !h.ready.Load() {
		errorResponse(c, http.StatusServiceUnavailable, errors.New("http source not ready"))
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}
	events, err := decode(body)
	if err != nil {
		sourcer.DecodeErrors.With(map[string]string{metrics.LabelSource: h.name}).Inc()
		errorResponse(c, http.StatusBadRequest, err)
		return
	}
	for i, e := range events {
		select {
		case h.messages <- e:
		case <-h.done:
			errorResponse(c, http.StatusServiceUnavailable, fmt.Errorf("http source closed after %d events", i))
			return
		case <-c.Request.Context().Done():
			errorResponse(c, http.StatusServiceUnavailable, fmt.Errorf("request cancelled after %d events", i))
			return
		}
	}
	c.JSON(http.StatusAccepted, NewAPIResponse(nil, map[string]int{"accepted": len(events)}))
}

// decode accepts a single event object or an array of events, the whole body is rejected on the first bad event.
func decode(body []byte) ([]event.Event, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, errors.New("empty body")
	}
	if !strings.HasPrefix(trimmed, "[") {
		e, err := event.Unmarshal([]byte(trimmed))
		if err != nil {
			return nil, err
		}
		return []event.Event{e}, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raws); err != nil {
		return nil, fmt.Errorf("failed to decode events, %w", err)
	}
	events := make([]event.Event, 0, len(raws))
	for i, raw := range raws {
		e, err := event.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// GetName returns the name of the source.
func (h *httpSource) GetName() string {
	return h.name
}

// Addr returns the address the server listens on.
func (h *httpSource) Addr() string {
	return h.addr
}

// Read forwards the posted events until ctx is done.
func (h *httpSource) Read(ctx context.Context, out chan<- event.Event) error {
	labels := map[string]string{metrics.LabelSource: h.name}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-h.messages:
			if err := sourcer.Forward(ctx, out, e); err != nil {
				return nil
			}
			sourcer.ReadCount.With(labels).Inc()
		}
	}
}

func (h *httpSource) Close() error {
	h.logger.Info("Shutting down http source server...")
	h.ready.Store(false)
	close(h.done)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		return err
	}
	h.logger.Info("HTTP source server shutdown")
	return nil
}
