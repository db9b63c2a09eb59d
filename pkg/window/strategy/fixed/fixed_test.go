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

package fixed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numacep/pkg/cfgerr"
	"github.com/numaproj/numacep/pkg/window"
)

func TestFixed_AssignWindow(t *testing.T) {

	loc, _ := time.LoadLocation("UTC")
	baseTime := time.Unix(1651129201, 0).In(loc)

	tests := []struct {
		name      string
		length    time.Duration
		eventTime time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "minute",
			length:    time.Minute,
			eventTime: baseTime,
			wantStart: time.Unix(1651129200, 0).In(loc),
			wantEnd:   time.Unix(1651129260, 0).In(loc),
		},
		{
			name:      "hour",
			length:    time.Hour,
			eventTime: baseTime,
			wantStart: time.Unix(1651129200, 0).In(loc),
			wantEnd:   time.Unix(1651129200+3600, 0).In(loc),
		},
		{
			name:      "5_minute",
			length:    time.Minute * 5,
			eventTime: baseTime,
			wantStart: time.Unix(1651129200, 0).In(loc),
			wantEnd:   time.Unix(1651129200+300, 0).In(loc),
		},
		{
			name:      "30_second",
			length:    time.Second * 30,
			eventTime: baseTime,
			wantStart: time.Unix(1651129200, 0).In(loc),
			wantEnd:   time.Unix(1651129230, 0).In(loc),
		},
		{
			name:      "day",
			length:    24 * time.Hour,
			eventTime: baseTime,
			wantStart: time.Unix(1651104000, 0).In(loc),
			wantEnd:   time.Unix(1651104000+86400, 0).In(loc),
		},
		{
			name:      "7_minute_epoch_aligned",
			length:    7 * time.Minute,
			eventTime: time.Unix(900, 0).In(loc),
			wantStart: time.Unix(840, 0).In(loc),
			wantEnd:   time.Unix(1260, 0).In(loc),
		},
		{
			name:      "boundary_goes_right",
			length:    time.Minute,
			eventTime: time.Unix(120, 0).In(loc),
			wantStart: time.Unix(120, 0).In(loc),
			wantEnd:   time.Unix(180, 0).In(loc),
		},
		{
			name:      "before_epoch",
			length:    time.Minute,
			eventTime: time.Unix(-30, 0).In(loc),
			wantStart: time.Unix(-60, 0).In(loc),
			wantEnd:   time.Unix(0, 0).In(loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFixed(tt.length)
			require.NoError(t, err)
			got := f.AssignWindow("key", tt.eventTime)
			assert.True(t, got.StartTime().Equal(tt.wantStart), "start %s, want %s", got.StartTime(), tt.wantStart)
			assert.True(t, got.EndTime().Equal(tt.wantEnd), "end %s, want %s", got.EndTime(), tt.wantEnd)
			assert.Equal(t, "key", got.Key())
			assert.True(t, got.Contains(tt.eventTime))
		})
	}
}

func TestNewFixed_InvalidLength(t *testing.T) {
	_, err := NewFixed(0)
	assert.True(t, cfgerr.IsConfigurationError(err))
	_, err = NewFixed(-time.Second)
	assert.True(t, cfgerr.IsConfigurationError(err))
	f, err := NewFixed(time.Second)
	assert.NoError(t, err)
	assert.Equal(t, window.Fixed, f.Strategy())
}
