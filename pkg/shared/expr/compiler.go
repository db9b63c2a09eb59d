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

// Package expr compiles and evaluates boolean expressions over events. Expressions are written in the
// antonmedv/expr language, e.g. `temperature >= 41 && tags.station == "A"`.
package expr

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// programs caches compiled programs by their source, patterns loaded several times share the compiled program.
var programs, _ = lru.New[string, *vm.Program](defaultCacheSize)

// Compile compiles the expression, compiled programs are cached. The result type is checked by EvalBool.
func Compile(expression string) (*vm.Program, error) {
	if p, ok := programs.Get(expression); ok {
		return p, nil
	}
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %s", expression, err)
	}
	programs.Add(expression, program)
	return program, nil
}
