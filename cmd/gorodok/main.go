package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/migrate"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/remote"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/report"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/server"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/settings"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/version"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/wifi"
)

// @title						Gorodok API
// @version					1.0
// @description				Citizen report ingestion and administration API.
// @BasePath					/
// @securityDefinitions.apikey	AdminToken
// @in							header
// @name						X-Admin-Token
func main() {
	rootCmd := &cobra.Command{
		Use:   "gorodok",
		Short: "Gorodok - city problem reports",
		Long:  `Gorodok collects citizen reports about security incidents, Wi-Fi problems, Wi-Fi suggestions and graffiti, and serves them to city administrators.`,

		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		report.NewCommand(),
		remote.NewCommand(),
		wifi.NewCommand(),
		settings.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
