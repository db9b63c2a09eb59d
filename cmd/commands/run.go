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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/numacep"
	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/processor"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

func NewRunCommand() *cobra.Command {
	var pipelineFile string

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := v1alpha1.LoadPipeline(pipelineFile)
			if err != nil {
				return err
			}
			log := logging.NewLogger().Named("runner").With("pipeline", p.Name)
			log.Infow("Starting pipeline", "version", numacep.GetVersion())
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			pp := &processor.PipelineProcessor{
				Pipeline:    p,
				MetricsAddr: viper.GetString(keyMetricsAddr),
				Pprof:       viper.GetBool(keyPprof),
			}
			if err := pp.Start(logging.WithLogger(ctx, log)); err != nil {
				return fmt.Errorf("pipeline %q failed, %w", p.Name, err)
			}
			return nil
		},
	}
	command.Flags().StringVarP(&pipelineFile, "pipeline", "f", "", "pipeline spec file (YAML or JSON)")
	_ = command.MarkFlagRequired("pipeline")
	return command
}
