package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/openafs-contrib/afsmon/internal/probes"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X github.com/openafs-contrib/afsmon/cmd.Version=..."
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "afsmon",
	Short: "Health-check probes for AFS cluster servers",
	Long: `Afsmon bundles the AFS health-check probes into one binary.
Each probe checks a single server, prints one line of summary text, and
exits 0 (OK), 1 (WARNING), 2 (CRITICAL), or 3 (UNKNOWN).`,
}

const probeGroupID = "probes"

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: probeGroupID, Title: "Probes:"})
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version and exit")
	rootCmd.Flags().Bool("describe", false, "Output built-in probe descriptions as JSON array")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	}

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("afsmon version %s\n", Version)
			return
		}
		if describe, _ := cmd.Flags().GetBool("describe"); describe {
			printDescriptions()
			return
		}
		cmd.Help()
	}
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if s, _ := cmd.Flags().GetString("log-level"); s != "" {
		level.UnmarshalText([]byte(s))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printDescriptions() {
	descs := probes.GetAllDescriptions()
	json.NewEncoder(os.Stdout).Encode(descs)
}
