// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contiv/netsynth/plugins/netctl/cmdimpl"
)

// NewRootCommand returns the netsynth command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &cmdimpl.Options{}
	rootCmd := &cobra.Command{
		Use:           "netsynth",
		Short:         "Synthesizes router configurations from a network intent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "",
		"location of the netsynth config file (default: $NETSYNTH_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&opts.IntentFile, "intent", "i", cmdimpl.DefaultIntentFile,
		"location of the intent file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newPlanCommand(opts))
	return rootCmd
}

func newGenerateCommand(opts *cmdimpl.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate and deploy the configuration of every router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdimpl.Generate(context.Background(), *opts, cmdimpl.Env{Out: cmd.OutOrStdout()})
		},
	}
}

func newPlanCommand(opts *cmdimpl.Options) *cobra.Command {
	var verify bool
	cmdPlan := &cobra.Command{
		Use:   "plan",
		Short: "Display the address plan of the intent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdimpl.Plan(*opts, cmd.OutOrStdout(), verify)
		},
	}
	cmdPlan.Flags().BoolVar(&verify, "verify", false,
		"check that configuration files and command lists carry the same statements")
	return cmdPlan
}

// Execute will execute the netsynth command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
