package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/mapbench/cmd/merge"
	"github.com/ValentinKolb/mapbench/cmd/strategies"
	"github.com/ValentinKolb/mapbench/cmd/util"
	"github.com/ValentinKolb/mapbench/lib/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mapbench",
		Short: "merge adjacent entries of ordered maps",
		Long: fmt.Sprintf(`mapbench (v%s)

Loads key/value records into an ordered map (B-tree or sorted slice)
and merges entries with their successors, either consecutively or
by a global plan-and-apply pass.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mapbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mapbench v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(merge.MergeCmd)
	RootCmd.AddCommand(strategies.StrategiesCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// setupLogging configures the loggers of all packages before a command runs
func setupLogging(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return logging.InitLoggers(viper.GetString("log-level"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
