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
	"fmt"
	"strconv"

	"github.com/Masterminds/sprig/v3"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"

	"github.com/numaproj/numacep/pkg/event"
)

var sprigFuncMap = sprig.GenericFuncMap()

// Reserved names of the evaluation environment. Fields and tags are also exposed by their own name at the top
// level unless they collide with a reserved name, fields win over tags.
const (
	envKey    = "key"
	envTime   = "time"
	envTs     = "ts"
	envFields = "fields"
	envTags   = "tags"
)

// EvalBool runs the compiled program against the event.
func EvalBool(program *vm.Program, e event.Event) (bool, error) {
	result, err := expr.Run(program, Env(e))
	if err != nil {
		return false, fmt.Errorf("unable to evaluate expression: %s", err)
	}
	resultBool, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return resultBool, nil
}

// Env returns the evaluation environment of the event.
func Env(e event.Event) map[string]interface{} {
	env := make(map[string]interface{}, len(e.Fields)+len(e.Tags)+9)
	for k, v := range e.Tags {
		env[k] = v
	}
	for k, v := range e.Fields {
		env[k] = v
	}
	fields := e.Fields
	if fields == nil {
		fields = map[string]float64{}
	}
	tags := e.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	env[envKey] = e.Key
	env[envTime] = e.EventTime
	env[envTs] = e.EventTime.UnixMilli()
	env[envFields] = fields
	env[envTags] = tags
	env["sprig"] = sprigFuncMap
	env["int"] = _int
	env["float"] = _float
	env["string"] = _string
	return env
}

func _int(v interface{}) int {
	switch w := v.(type) {
	case string:
		i, err := strconv.Atoi(w)
		if err != nil {
			panic(fmt.Errorf("cannot convert %q to int", v))
		}
		return i
	case float64:
		return int(w)
	case int:
		return w
	case int64:
		return int(w)
	default:
		panic(fmt.Errorf("cannot convert %v to int", v))
	}
}

func _float(v interface{}) float64 {
	switch w := v.(type) {
	case string:
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			panic(fmt.Errorf("cannot convert %q to float", v))
		}
		return f
	case float64:
		return w
	case int:
		return float64(w)
	case int64:
		return float64(w)
	default:
		panic(fmt.Errorf("cannot convert %v to float", v))
	}
}

func _string(v interface{}) string {
	switch w := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(w)
	default:
		return fmt.Sprintf("%v", v)
	}
}
