package main

import (
	"fmt"
	"os"

	"github.com/co-tools/billing-atlas/pkg/server"
	"github.com/co-tools/billing-atlas/pkg/services/config"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/store/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the billing dashboard web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an optional config file (env vars override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Registry: dataset.NewRegistry(),
			Sessions: session.NewStore([]byte(cfg.SessionSecret)),
		},
	})

	return api.Start()
}
