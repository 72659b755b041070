package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Load .env if present; a missing file is fine.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:     "hopx",
		Short:   "Manage Hopx sandboxes and templates",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Errors are printed once, below.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := &globalFlags{}
	rootCmd.PersistentFlags().StringVar(&flags.apiKey, "api-key", "", "API key (defaults to HOPX_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "control plane URL (defaults to HOPX_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (defaults to ~/.hopx/config.yaml)")

	rootCmd.AddCommand(sandboxCmd(flags))
	rootCmd.AddCommand(templateCmd(flags))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
