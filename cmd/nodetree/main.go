package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/nodetree-backend/internal/app"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "nodetree",
		Short:   "Node tree and project tracking API",
		Version: Version,
		// Bare invocation serves, as the container entrypoint expects.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedStateCodesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Migrate()
		},
	}
}

func seedStateCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-statecodes",
		Short: "Insert the default state codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Migrate(); err != nil {
				return err
			}
			return a.SeedStateCodes(cmd.Context())
		},
	}
}
