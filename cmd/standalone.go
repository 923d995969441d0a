package cmd

import (
	"fmt"
	"os"

	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/spf13/cobra"
)

// RunStandalone runs a probe command as its own program, the way a
// monitoring scheduler invokes it. Even a flag-parse failure still emits
// the one-line contract output before exiting UNKNOWN.
func RunStandalone(c *cobra.Command, use, domain string) {
	c.Use = use
	c.Version = Version
	c.Flags().BoolP("version", "V", false, "Print version and exit")
	c.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	c.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	}
	if err := c.Execute(); err != nil {
		result := &probe.Result{Status: probe.StatusUnknown, Message: err.Error()}
		fmt.Println(result.Render(domain, false))
		os.Exit(result.Status.ExitCode())
	}
}
