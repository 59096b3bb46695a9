// Copyright 2026 xgfone
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/xgfone/berth"
	"github.com/xgfone/berth/config"
	"github.com/xgfone/berth/metrics"
	"github.com/xgfone/berth/render"
	"github.com/xgfone/berth/server"
	"golang.org/x/sync/errgroup"
)

// Set by -ldflags "-X main.version=...".
var version = "dev"

// NewRootCommand returns the root command of berthd.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "berthd",
		Short:         "HTTP server dispatching the requests on the event loops",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newServeCommand(), newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of berthd",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "berthd %s\n", version)
		},
	}
}

func newServeCommand() *cobra.Command {
	var configFile, dotenv string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, dotenv)
			if err != nil {
				return fmt.Errorf("fail to load the config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "the path of the YAML config file")
	cmd.Flags().StringVar(&dotenv, "dotenv", ".env", "the path of the optional dotenv file")
	return cmd
}

// newServer builds the dispatch server and registers the demo routes.
func newServer(cfg *config.Config, logger berth.Logger, collector *metrics.Collector) *server.Server {
	s := server.New(
		server.WithLogger(logger),
		server.WithMetrics(collector),
		server.WithMaxBodySize(cfg.HTTP.MaxBodySize),
		server.WithLoops(cfg.Loop.Count, cfg.Loop.QueueSize),
		server.WithEncoder(render.ByName(cfg.Response.Encoding)),
	)
	s.Use(server.RequestID(nil))
	registerRoutes(s)
	return s
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	zlog, err := newLogger(cfg.Log, nil)
	if err != nil {
		return fmt.Errorf("fail to build the logger: %w", err)
	}
	defer zlog.Sync()
	logger := berth.NewLoggerFromZap(zlog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector("")
	collector.MustRegister(reg)

	s := newServer(cfg, logger, collector)
	runner := server.NewRunner("http", cfg.HTTP.ListenAddr, s)
	runner.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	runner.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	runner.StopTimeout = cfg.HTTP.StopTimeout

	var eg errgroup.Group
	if cfg.Metrics.ListenAddr != "" {
		handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
		mrunner := server.NewRunner("metrics", cfg.Metrics.ListenAddr, handler)
		mrunner.Logger = logger
		mrunner.StopTimeout = cfg.HTTP.StopTimeout
		mrunner.Link(runner)
		eg.Go(mrunner.Start)
	}
	eg.Go(runner.Start)

	eg.Go(func() error {
		select {
		case <-ctx.Done():
			runner.Stop()
		case <-runner.Done():
		}
		return nil
	})

	return eg.Wait()
}
