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

// Package cfgerr holds the configuration error returned when a pattern, window or pipeline is constructed
// with invalid settings. Configuration errors are only raised at construction time, never mid-stream.
package cfgerr

import (
	"errors"
	"fmt"
)

// ConfigurationError describes an invalid setting.
type ConfigurationError struct {
	field  string
	reason string
}

func New(field, reason string) *ConfigurationError {
	return &ConfigurationError{
		field:  field,
		reason: reason,
	}
}

// Newf is like New with a formatted reason.
func Newf(field, format string, args ...interface{}) *ConfigurationError {
	return New(field, fmt.Sprintf(format, args...))
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.field, e.reason)
}

func (e *ConfigurationError) Field() string {
	return e.field
}

func (e *ConfigurationError) Reason() string {
	return e.reason
}

// IsConfigurationError reports whether any error in err's chain is a ConfigurationError. Errors combined with
// multierr are inspected one by one.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return true
	}
	if multi, ok := err.(interface{ Errors() []error }); ok {
		for _, e := range multi.Errors() {
			if IsConfigurationError(e) {
				return true
			}
		}
	}
	return false
}
