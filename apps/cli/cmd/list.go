package cmd

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured scripts and their fixtures",
	Long: `List every script in the configuration with its fixture directory and
the fixtures that belong to it.

Examples:
  fixspec list
  fixspec list --config ci.yaml`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return err
	}

	listScripts(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

func listScripts(cfg *config.Config, out, errOut io.Writer) {
	if len(cfg.Scripts) == 0 {
		fmt.Fprintf(out, "No scripts configured in %s\n", cfg.Path)
		return
	}

	for _, script := range cfg.Scripts {
		fixtures, err := fixture.Discover(script.Dir, script.BaseName())
		if err != nil {
			fmt.Fprintf(errOut, "Error listing %s: %v\n", script.Name, err)
			continue
		}

		fmt.Fprintf(out, "\n%s (%s):\n", script.Name, script.Dir)
		for _, fx := range fixtures {
			fmt.Fprintf(out, "  - %s\n", fx.Name)
		}
		fmt.Fprintf(out, "  %d fixtures\n", len(fixtures))
	}
}
