package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bajabeat/descargas/internal/interfaces/cli/migrate"
	"github.com/bajabeat/descargas/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "descargas",
		Short: "Descargas - subscription billing and download quota service",
		Long:  `Descargas keeps paid subscriptions, cash voucher orders, and FTP download quotas consistent across payment providers and the quota tables the FTP daemon enforces.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
