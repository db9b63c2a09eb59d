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

package numacep

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
)

// setBuildInfo overrides the ldflags variables for the duration of the test.
func setBuildInfo(t *testing.T, v, commit, tag, treeState string) {
	t.Helper()
	origVersion, origCommit, origTag, origTreeState := version, gitCommit, gitTag, gitTreeState
	t.Cleanup(func() {
		version, gitCommit, gitTag, gitTreeState = origVersion, origCommit, origTag, origTreeState
	})
	version, gitCommit, gitTag, gitTreeState = v, commit, tag, treeState
}

func TestVersionStringOutput(t *testing.T) {
	v := Version{
		Version:      "v0.3.0",
		BuildDate:    "2024-07-01T00:00:00Z",
		GitCommit:    "0c9e1f2a7b",
		GitTag:       "v0.3.0",
		GitTreeState: "clean",
		GoVersion:    "go1.22.5",
		Compiler:     "gc",
		Platform:     "linux/arm64",
	}
	expected := "Version: v0.3.0, BuildDate: 2024-07-01T00:00:00Z, GitCommit: 0c9e1f2a7b, GitTag: v0.3.0, GitTreeState: clean, GoVersion: go1.22.5, Compiler: gc, Platform: linux/arm64"
	if v.String() != expected {
		t.Errorf("Version.String() = %v, want %v", v.String(), expected)
	}
}

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		commit    string
		tag       string
		treeState string
		want      string
	}{
		{name: "release", version: "dev", commit: "1234567890abcdef", tag: "v1.2.3", treeState: "clean", want: "v1.2.3"},
		{name: "dirty tree", version: "dev", commit: "1234567890abcdef", treeState: "dirty", want: "dev+1234567.dirty"},
		{name: "tagged but dirty", version: "dev", commit: "1234567890abcdef", tag: "v1.2.3", treeState: "dirty", want: "dev+1234567.dirty"},
		{name: "untagged clean", version: "dev", commit: "1234567890abcdef", treeState: "clean", want: "dev+1234567"},
		{name: "unknown commit", version: "dev", treeState: "clean", want: "dev+unknown"},
		{name: "short commit", version: "dev", commit: "abc", want: "dev+unknown"},
		{name: "no ldflags", version: "latest", want: "latest+unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildInfo(t, tt.version, tt.commit, tt.tag, tt.treeState)
			if got := GetVersion().Version; got != tt.want {
				t.Errorf("GetVersion().Version = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetVersionDefaultBuildDate(t *testing.T) {
	if got := GetVersion().BuildDate; got != "1970-01-01T00:00:00Z" {
		t.Errorf("GetVersion().BuildDate = %v, want the epoch default", got)
	}
}

func TestGetVersionRuntimeInfo(t *testing.T) {
	v := GetVersion()
	if v.GoVersion != runtime.Version() {
		t.Errorf("GetVersion().GoVersion = %v, want %v", v.GoVersion, runtime.Version())
	}
	if v.Compiler != runtime.Compiler {
		t.Errorf("GetVersion().Compiler = %v, want %v", v.Compiler, runtime.Compiler)
	}
	expectedPlatform := fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	if v.Platform != expectedPlatform {
		t.Errorf("GetVersion().Platform = %v, want %v", v.Platform, expectedPlatform)
	}
	if !strings.Contains(v.String(), "Platform: "+expectedPlatform) {
		t.Errorf("Version.String() = %v, missing the platform", v.String())
	}
}
