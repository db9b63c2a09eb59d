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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/engine"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

func NewValidateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "validate PIPELINE_FILE...",
		Short: "Validate pipeline specs and compile their patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), logging.NewLogger().Named("validate"))
			for _, f := range args {
				p, err := v1alpha1.LoadPipeline(f)
				if err != nil {
					return err
				}
				if _, err := engine.FromPipeline(ctx, *p); err != nil {
					return fmt.Errorf("invalid pipeline %q, %w", p.Name, err)
				}
				cmd.Printf("pipeline %q in %s is valid\n", p.Name, f)
			}
			return nil
		},
	}
	return command
}
