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

package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numacep/pkg/event"
)

var testEvent = event.Event{
	ID:        "1",
	Key:       "A",
	EventTime: time.Unix(1651129201, 0),
	Fields:    map[string]float64{"temperature": 42, "wind": 12.5},
	Tags:      map[string]string{"station": "A", "unit": "celsius", "key": "shadowed"},
}

func TestEvalBool(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       bool
		wantErr    bool
	}{
		{name: "field_at_top_level", expression: `temperature >= 41`, want: true},
		{name: "field_below_threshold", expression: `temperature >= 43`, want: false},
		{name: "fields_map", expression: `fields.wind > 10`, want: true},
		{name: "tags_map", expression: `tags.station == "A"`, want: true},
		{name: "tag_at_top_level", expression: `unit == "celsius"`, want: true},
		{name: "key", expression: `key == "A"`, want: true},
		{name: "reserved_names_win", expression: `tags.key == "shadowed" && key == "A"`, want: true},
		{name: "ts", expression: `ts == 1651129201000`, want: true},
		{name: "missing_field_in_map", expression: `"humidity" in fields`, want: false},
		{name: "sprig", expression: `sprig.contains("cel", unit)`, want: true},
		{name: "helpers", expression: `int("3") == 3 && float("2.5") == 2.5 && string(1) == "1"`, want: true},
		{name: "not_bool", expression: `temperature`, wantErr: true},
		{name: "runtime_error", expression: `int("x") == 1`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expression)
			require.NoError(t, err)
			got, err := EvalBool(p, testEvent)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalBool_NotBool(t *testing.T) {
	p, err := Compile(`temperature`)
	require.NoError(t, err)
	_, err = EvalBool(p, testEvent)
	assert.EqualError(t, err, "unable to cast expression result '42' to bool")
}

func TestEvalBool_SprigHelpers(t *testing.T) {
	for _, expression := range []string{
		`sprig.contains("cel", unit)`,
		`sprig.hasPrefix("cel", tags.unit) && temperature > 40`,
		`sprig.upper(key) == "A"`,
	} {
		p, err := Compile(expression)
		require.NoError(t, err, expression)
		got, err := EvalBool(p, testEvent)
		require.NoError(t, err, expression)
		assert.True(t, got, expression)
	}
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`ab\na`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to compile expression")
}

func TestCompile_Cached(t *testing.T) {
	p1, err := Compile(`temperature > 0`)
	require.NoError(t, err)
	p2, err := Compile(`temperature > 0`)
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestEnv_NilMaps(t *testing.T) {
	env := Env(event.Event{Key: "B"})
	assert.Equal(t, "B", env["key"])
	assert.NotNil(t, env["fields"])
	assert.NotNil(t, env["tags"])
}
