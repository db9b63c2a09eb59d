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

package util

import (
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// NewRetryBackoff returns an exponential backoff of the given steps starting at duration.
func NewRetryBackoff(steps int, duration time.Duration) wait.Backoff {
	return wait.Backoff{
		Steps:    steps,
		Duration: duration,
		Factor:   2.0,
		Jitter:   0.1,
	}
}
