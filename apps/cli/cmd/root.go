package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fixspec [script]",
	Short: "Plain text fixture tests for scripts. No magic.",
	Long: `fixspec runs a script once per fixture in its test directory, feeds the
fixture's .stdin file to the script and compares the trimmed output with the
matching .out file.

Running fixspec without a command is the same as "fixspec run".`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCommand,
	SilenceUsage: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitFatal)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("FIXSPEC_CONFIG", ""), "Path to config file (default config.json) (env: FIXSPEC_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("FIXSPEC_NO_COLOR", false), "Disable colored output (env: FIXSPEC_NO_COLOR)")
	bindRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
