// cmd/sequencer/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is announced in the startup banner.
const Version = "1.4.0"

var (
	configPath string

	mainCmd = &cobra.Command{
		Use:   "sequencer",
		Short: "Valve sequencer for a sample-introduction front panel",
	}
	runCmd = &cobra.Command{
		Use:          "run",
		Short:        "Run the control loop",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runSequencer,
	}
	tableCmd = &cobra.Command{
		Use:   "table",
		Short: "Print the command table",
		Args:  cobra.NoArgs,
		RunE:  printTable,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
)

func main() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "/etc/valve-sequencer.yaml", "Config path (.yaml, .yml or .toml)")
	mainCmd.AddCommand(runCmd, tableCmd, versionCmd)
	if err := mainCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
