// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/uploadgw/pkg/gateway"
	"storj.io/uploadgw/pkg/gateway/tools"
	"storj.io/uploadgw/pkg/objstore"
)

var (
	rootCmd = &cobra.Command{
		Use:   "uploadgw",
		Short: "Object upload gateway (MCP server over object storage)",
		Args:  cobra.OnlyValidArgs,
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the service",
		Args:  cobra.ExactArgs(0),
		RunE:  cmdRun,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println(tools.Version)
		},
	}
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func cmdRun(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// A .env file is optional; the environment always wins.
	_ = godotenv.Load()

	config, err := gateway.LoadConfig()
	if err != nil {
		return err
	}

	log.Info("Starting object upload gateway",
		zap.String("version", tools.Version),
		zap.String("endpoint", config.Endpoint),
		zap.String("bucket", config.Bucket))

	store, err := objstore.NewMinio(objstore.MinioConfig{
		Endpoint:  config.Endpoint,
		AccessKey: config.AccessKey,
		SecretKey: config.SecretKey,
		Secure:    config.Secure,
	})
	if err != nil {
		return err
	}

	if err := objstore.Ensure(ctx, store, config.Bucket); err != nil {
		return err
	}

	peer, err := gateway.New(log, config, store)
	if err != nil {
		return err
	}

	// if peer.Run() fails, we want to ensure the context is canceled so we
	// don't hang on ctx.Done before closing the peer.
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return ignoreCanceled(peer.Close())
	})

	g.Go(func() error {
		return ignoreCanceled(peer.Run(ctx))
	})

	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
