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
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/numacep/pkg/apis/cep/v1alpha1"
	"github.com/numaproj/numacep/pkg/shared/logging"
)

const (
	// CLI name
	CLIName = "numacep"

	keyLogLevel    = "log-level"
	keyMetricsAddr = "metrics-addr"
	keyPprof       = "pprof"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   CLIName,
	Short: "Detect event patterns in timestamped streams",
	Long: `numacep groups a keyed event stream into tumbling windows, runs pattern matchers over the window
results of every key and emits a warning for each match.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with the process settings, the log level is reloaded on change")
	rootCmd.PersistentFlags().String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String(keyMetricsAddr, v1alpha1.DefaultMetricsAddr, "listen address of the metrics server")
	rootCmd.PersistentFlags().Bool(keyPprof, false, "enable the pprof endpoints on the metrics server")
	for _, key := range []string{keyLogLevel, keyMetricsAddr, keyPprof} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewVersionCommand())
}

func initConfig() {
	viper.SetEnvPrefix(v1alpha1.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read config file %q, %v\n", cfgFile, err)
			os.Exit(1)
		}
		viper.OnConfigChange(func(e fsnotify.Event) {
			applyLogLevel()
		})
		viper.WatchConfig()
	}
	applyLogLevel()
}

func applyLogLevel() {
	if err := logging.SetLevel(viper.GetString(keyLogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q, %v\n", viper.GetString(keyLogLevel), err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
