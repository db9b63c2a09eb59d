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

package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

const pipelineTemplate = `
name: heat
spec:
  window:
    length: 24h
    reducer:
      type: max
      field: temperature
  patterns:
    - name: heat-wave
      within: 48h
      stages:
        - name: hot
          condition: temperature >= 41
        - name: hotter
          condition: temperature >= 41
      warning:
        kind: HeatWarning
        fields: [temperature]
  source:
    file:
      path: %s
  sinks:
    - name: log
      log: {}
`

func writeEvents(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for day, peak := range []float64{42, 43, 20, 45, 46} {
		for h, delta := range []float64{-5, 0, -3} {
			ts := start.Add(time.Duration(day)*24*time.Hour + time.Duration(6*(h+1))*time.Hour)
			_, _ = fmt.Fprintf(&b, `{"key":"S1","time":%q,"fields":{"temperature":%v}}`+"\n", ts.Format(time.RFC3339), peak+delta)
		}
	}
	path := filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestPipelineProcessor_Start(t *testing.T) {
	dir := t.TempDir()
	p, err := v1alpha1.ParsePipeline([]byte(fmt.Sprintf(pipelineTemplate, writeEvents(t, dir))))
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ctx = logging.WithLogger(ctx, zap.New(core).Sugar())

	pp := &PipelineProcessor{Pipeline: p, MetricsAddr: "127.0.0.1:0"}
	require.NoError(t, pp.Start(ctx))

	warnings := logs.FilterMessage("Warning").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "S1", warnings[0].ContextMap()["key"])
	assert.Equal(t, "HeatWarning", warnings[1].ContextMap()["kind"])
	assert.Equal(t, 1, logs.FilterMessage("Pipeline processing finished").Len())
}

func TestPipelineProcessor_Errors(t *testing.T) {
	p, err := v1alpha1.ParsePipeline([]byte(fmt.Sprintf(pipelineTemplate, filepath.Join(t.TempDir(), "missing.jsonl"))))
	require.NoError(t, err)
	pp := &PipelineProcessor{Pipeline: p, MetricsAddr: "127.0.0.1:0"}
	assert.Error(t, pp.Start(context.Background()))
}
