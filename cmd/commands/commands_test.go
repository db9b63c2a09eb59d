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

package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numacep"
)

func Test_Commands(t *testing.T) {
	example := filepath.Join("..", "..", "examples", "heat-wave.yaml")

	t.Run("root execute", func(t *testing.T) {
		rootCmd.SetArgs([]string{"help"})
		assert.NotPanics(t, Execute, "help")
	})

	t.Run("test root", func(t *testing.T) {
		b := bytes.NewBufferString("")
		rootCmd.SetOut(b)
		rootCmd.SetArgs([]string{"help"})
		Execute()
		output, _ := io.ReadAll(b)
		assert.Contains(t, string(output), "Available Commands")
	})

	t.Run("Version", func(t *testing.T) {
		cmd := NewVersionCommand()
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		require.NoError(t, cmd.Execute())
		assert.Contains(t, b.String(), "Version: ")
	})

	t.Run("root version", func(t *testing.T) {
		b := bytes.NewBufferString("")
		rootCmd.SetOut(b)
		rootCmd.SetArgs([]string{"version"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, b.String(), numacep.GetVersion().Version)
		assert.Contains(t, b.String(), "GoVersion: ")
	})

	t.Run("Validate", func(t *testing.T) {
		cmd := NewValidateCommand()
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{example})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, b.String(), `pipeline "heat-wave"`)

		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("name: bad\nspec:\n  window:\n    reducer:\n      type: sum\n"), 0o600))
		cmd = NewValidateCommand()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{bad})
		assert.Error(t, cmd.Execute())

		cmd = NewValidateCommand()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{})
		assert.Error(t, cmd.Execute())
	})

	t.Run("Run", func(t *testing.T) {
		cmd := NewRunCommand()
		assert.True(t, cmd.HasLocalFlags())
		assert.Equal(t, "run", cmd.Use)
		assert.Equal(t, "string", cmd.Flag("pipeline").Value.Type())
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline")
		cmd.SetArgs([]string{"--pipeline", filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Error(t, cmd.Execute())
	})
}
