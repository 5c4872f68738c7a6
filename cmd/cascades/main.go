// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// FlagConfig is the name of config flag.
	FlagConfig = "config"
	// FlagLogLevel is the name of log-level flag.
	FlagLogLevel = "log-level"

	flagMemo   = "memo"
	flagVerify = "verify"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		sig := <-sc
		fmt.Printf("\nGot signal [%v] to exit.\n", sig)
		log.Warn("received signal to exit", zap.Stringer("signal", sig))
		cancel()
		<-sc
		os.Exit(1)
	}()

	rootCmd := newRootCommand()
	// Outputs cmd.Print to stdout.
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		log.Error("cascades failed", zap.Error(err))
		os.Exit(1) // nolint:gocritic
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "cascades",
		Short:             "cascades explains how the cost based optimizer plans a query.",
		SilenceUsage:      true,
		PersistentPreRunE: initGlobalConfig,
	}
	rootCmd.PersistentFlags().StringP(FlagConfig, "C", "", "Set the config file path")
	rootCmd.PersistentFlags().StringP(FlagLogLevel, "L", "", "Set the log level, it overrides the config file")
	rootCmd.AddCommand(
		newExplainCommand(),
		newRulesCommand(),
		newRefreshCommand(),
	)
	return rootCmd
}

// initGlobalConfig loads the config file, stores it as the global config and sets up the logger.
func initGlobalConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	path, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return err
	}
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return err
		}
	}
	level, err := cmd.Flags().GetString(FlagLogLevel)
	if err != nil {
		return err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Valid(); err != nil {
		return err
	}
	config.StoreGlobalConfig(cfg)
	return logutil.InitLogger(cfg.Log.ToLogConfig())
}
