package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openafs-contrib/afsmon/internal/classify"
	"github.com/openafs-contrib/afsmon/internal/config"
	"github.com/openafs-contrib/afsmon/internal/probe"
	"github.com/openafs-contrib/afsmon/internal/probes/bos"
	"github.com/openafs-contrib/afsmon/internal/probes/rxdebug"
	"github.com/openafs-contrib/afsmon/internal/probes/space"
	"github.com/openafs-contrib/afsmon/internal/probes/udebug"
	"github.com/openafs-contrib/afsmon/internal/probes/vldb"
	"github.com/spf13/cobra"
)

// NewRxdebugCommand returns the blocked-connections probe command.
func NewRxdebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   rxdebug.Name,
		Short: "Check for calls blocked waiting for a fileserver thread",
		Run: func(cmd *cobra.Command, args []string) {
			site := loadSite(rxdebug.Domain)
			host, _ := cmd.Flags().GetString("hostname")
			port, _ := cmd.Flags().GetInt("port")
			override, _ := cmd.Flags().GetString("command")

			o := &rxdebug.Options{
				Host:        host,
				Port:        port,
				Thresholds:  thresholdsFromFlags(cmd),
				Timeout:     timeoutFromFlags(cmd),
				Command:     site.CommandOverride(rxdebug.Command, override),
				SearchPaths: site.SearchPaths,
			}
			rejectUsageError(cmd, rxdebug.Domain, o.Validate())
			emit(cmd, rxdebug.Domain, rxdebug.Run(context.Background(), o))
		},
	}
	cmd.Flags().StringP("hostname", "H", "", "Fileserver to probe")
	cmd.Flags().IntP("port", "p", rxdebug.DefaultPort, "Rx service port")
	cmd.Flags().IntP("warning", "w", 2, "Waiting-call count that triggers a warning")
	cmd.Flags().IntP("critical", "c", 8, "Waiting-call count that triggers a critical")
	cmd.Flags().IntP("timeout", "t", int(rxdebug.DefaultTimeout.Seconds()), "Deadline for the rxdebug invocation in seconds")
	cmd.Flags().BoolP("perfdata", "d", false, "Append performance data to the output line")
	cmd.Flags().String("command", "", "Path to the rxdebug binary")
	return cmd
}

// NewSpaceCommand returns the partition-usage probe command.
func NewSpaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   space.Name,
		Short: "Check used space on fileserver partitions",
		Run: func(cmd *cobra.Command, args []string) {
			site := loadSite(space.Domain)
			host, _ := cmd.Flags().GetString("hostname")
			partition, _ := cmd.Flags().GetString("partition")
			cell, _ := cmd.Flags().GetString("cell")
			override, _ := cmd.Flags().GetString("command")

			o := &space.Options{
				Host:        host,
				Partition:   partition,
				Cell:        cellOrDefault(cell, site),
				Thresholds:  thresholdsFromFlags(cmd),
				Timeout:     timeoutFromFlags(cmd),
				Command:     site.CommandOverride(space.Command, override),
				SearchPaths: site.SearchPaths,
			}
			rejectUsageError(cmd, space.Domain, o.Validate())
			emit(cmd, space.Domain, space.Run(context.Background(), o))
		},
	}
	cmd.Flags().StringP("hostname", "H", "", "Fileserver to probe")
	cmd.Flags().StringP("partition", "p", "", "Only check this partition (a, vicepa, or /vicepa)")
	cmd.Flags().IntP("warning", "w", 85, "Used percentage that triggers a warning")
	cmd.Flags().IntP("critical", "c", 90, "Used percentage that triggers a critical")
	cmd.Flags().IntP("timeout", "t", int(space.DefaultTimeout.Seconds()), "Deadline for the vos partinfo invocation in seconds")
	cmd.Flags().BoolP("perfdata", "d", false, "Append performance data to the output line")
	cmd.Flags().String("cell", "", "AFS cell to query")
	cmd.Flags().String("command", "", "Path to the vos binary")
	return cmd
}

// NewBosCommand returns the bosserver process-status probe command.
func NewBosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   bos.Name,
		Short: "Check the status of bosserver-managed server processes",
		Run: func(cmd *cobra.Command, args []string) {
			site := loadSite(bos.Domain)
			host, _ := cmd.Flags().GetString("hostname")
			cell, _ := cmd.Flags().GetString("cell")
			override, _ := cmd.Flags().GetString("command")

			o := &bos.Options{
				Host:        host,
				Cell:        cellOrDefault(cell, site),
				Timeout:     timeoutFromFlags(cmd),
				Command:     site.CommandOverride(bos.Command, override),
				SearchPaths: site.SearchPaths,
			}
			rejectUsageError(cmd, bos.Domain, o.Validate())
			emit(cmd, bos.Domain, bos.Run(context.Background(), o))
		},
	}
	cmd.Flags().StringP("hostname", "H", "", "Server whose bosserver to probe")
	cmd.Flags().StringP("cell", "c", "", "AFS cell to query")
	cmd.Flags().IntP("timeout", "t", int(bos.DefaultTimeout.Seconds()), "Deadline for the bos status invocation in seconds")
	cmd.Flags().BoolP("perfdata", "d", false, "Append performance data to the output line")
	cmd.Flags().String("command", "", "Path to the bos binary")
	return cmd
}

// NewUdebugCommand returns the Ubik quorum probe command.
func NewUdebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   udebug.Name,
		Short: "Check Ubik quorum sync-site and recovery state",
		Run: func(cmd *cobra.Command, args []string) {
			site := loadSite(udebug.Domain)
			host, _ := cmd.Flags().GetString("hostname")
			port, _ := cmd.Flags().GetInt("port")
			override, _ := cmd.Flags().GetString("command")

			o := &udebug.Options{
				Host:        host,
				Port:        port,
				Timeout:     timeoutFromFlags(cmd),
				Command:     site.CommandOverride(udebug.Command, override),
				SearchPaths: site.SearchPaths,
			}
			rejectUsageError(cmd, udebug.Domain, o.Validate())
			emit(cmd, udebug.Domain, udebug.Run(context.Background(), o))
		},
	}
	cmd.Flags().StringP("hostname", "H", "", "Database server to probe")
	cmd.Flags().IntP("port", "p", udebug.DefaultPort, "Ubik service port")
	cmd.Flags().IntP("timeout", "t", int(udebug.DefaultTimeout.Seconds()), "Deadline for the udebug invocation in seconds")
	cmd.Flags().String("command", "", "Path to the udebug binary")
	return cmd
}

// NewVldbCommand returns the VLDB registration probe command.
func NewVldbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   vldb.Name,
		Short: "Check fileserver UUID and address registration in the VLDB",
		Run: func(cmd *cobra.Command, args []string) {
			site := loadSite(vldb.Domain)
			host, _ := cmd.Flags().GetString("hostname")
			uuid, _ := cmd.Flags().GetString("uuid")
			addrs, _ := cmd.Flags().GetStringArray("addr")
			cell, _ := cmd.Flags().GetString("cell")
			override, _ := cmd.Flags().GetString("command")

			o := &vldb.Options{
				Host:        host,
				UUID:        uuid,
				Addresses:   addrs,
				Cell:        cellOrDefault(cell, site),
				Timeout:     timeoutFromFlags(cmd),
				Command:     site.CommandOverride(vldb.Command, override),
				SearchPaths: site.SearchPaths,
			}
			rejectUsageError(cmd, vldb.Domain, o.Validate())
			emit(cmd, vldb.Domain, vldb.Run(context.Background(), o))
		},
	}
	cmd.Flags().StringP("hostname", "H", "", "Fileserver whose registration to verify")
	cmd.Flags().StringP("uuid", "u", "", "Expected registered UUID")
	cmd.Flags().StringArrayP("addr", "a", nil, "Expected registered address (repeatable)")
	cmd.Flags().StringP("cell", "c", "", "AFS cell to query")
	cmd.Flags().IntP("timeout", "t", int(vldb.DefaultTimeout.Seconds()), "Deadline for the vos listaddrs invocation in seconds")
	cmd.Flags().String("command", "", "Path to the vos binary")
	return cmd
}

func init() {
	for _, c := range []*cobra.Command{
		NewRxdebugCommand(),
		NewSpaceCommand(),
		NewBosCommand(),
		NewUdebugCommand(),
		NewVldbCommand(),
	} {
		c.GroupID = probeGroupID
		rootCmd.AddCommand(c)
	}
}

func thresholdsFromFlags(cmd *cobra.Command) classify.Thresholds {
	warning, _ := cmd.Flags().GetInt("warning")
	critical, _ := cmd.Flags().GetInt("critical")
	return classify.Thresholds{Warning: int64(warning), Critical: int64(critical)}
}

func timeoutFromFlags(cmd *cobra.Command) time.Duration {
	seconds, _ := cmd.Flags().GetInt("timeout")
	return time.Duration(seconds) * time.Second
}

func cellOrDefault(cell string, site *config.Site) string {
	if cell != "" {
		return cell
	}
	return site.Cell
}

// loadSite reads the optional site configuration. A broken config file is
// a configuration error and terminates with UNKNOWN before any command
// runs.
func loadSite(domain string) *config.Site {
	site, err := config.Load()
	if err != nil {
		result := &probe.Result{Status: probe.StatusUnknown, Message: fmt.Sprintf("bad site configuration: %v", err)}
		fmt.Println(result.Render(domain, false))
		fmt.Fprintf(os.Stderr, "afsmon: %v\n", err)
		os.Exit(result.Status.ExitCode())
	}
	return site
}

// rejectUsageError terminates with UNKNOWN when err is a configuration
// error, echoing usage to stderr. No external command has run yet.
func rejectUsageError(cmd *cobra.Command, domain string, err error) {
	if err == nil {
		return
	}
	result := &probe.Result{Status: probe.StatusUnknown, Message: err.Error()}
	fmt.Println(result.Render(domain, false))
	fmt.Fprintf(os.Stderr, "afsmon: %v\n", err)
	cmd.Usage()
	os.Exit(result.Status.ExitCode())
}

// emit prints the single contract line and exits with the code encoding
// the severity.
func emit(cmd *cobra.Command, domain string, result *probe.Result) {
	perfdata := false
	if cmd.Flags().Lookup("perfdata") != nil {
		perfdata, _ = cmd.Flags().GetBool("perfdata")
	}
	fmt.Println(result.Render(domain, perfdata))
	os.Exit(result.Status.ExitCode())
}
