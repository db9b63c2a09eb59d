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

// Package nfa matches a pattern definition against the ordered event stream of a single key.
//
// A Matcher keeps the partial matches of one key. Every event is offered to each partial match in creation
// order and may bind the next stage of several of them, while an event satisfying the first stage also starts a
// new partial match. Partial matches are discarded when they exceed the time bound of the pattern, when a strict
// stage sees a non-matching event, or when the matcher is drained.
//
// A Matcher is not safe for concurrent use, it is owned by the lane processing its key.
package nfa
