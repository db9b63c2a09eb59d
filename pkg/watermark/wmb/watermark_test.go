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

package wmb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatermark_Compare(t *testing.T) {
	base := time.Unix(1651129200, 0)
	wm := Watermark(base)
	assert.True(t, wm.After(base.Add(-time.Second)))
	assert.False(t, wm.After(base))
	assert.True(t, wm.Before(base.Add(time.Second)))
	assert.True(t, wm.Passed(base))
	assert.False(t, wm.Passed(base.Add(time.Millisecond)))
	assert.True(t, wm.AfterWatermark(InitialWatermark))
	assert.True(t, InitialWatermark.BeforeWatermark(wm))
	assert.Equal(t, int64(1651129200000), wm.UnixMilli())
	assert.Equal(t, "2022-04-28T07:00:00Z", wm.String())
	assert.Equal(t, base.Add(time.Minute), wm.Add(time.Minute))
}
