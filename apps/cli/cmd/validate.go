package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and fixture directories",
	Long: `Validate the configuration file and check that every configured script
has a readable fixture directory in which each .stdin file has a matching
.out file. Nothing is executed.

Examples:
  fixspec validate
  fixspec validate --config fixspec.yaml`,
	Args: cobra.NoArgs,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return err
	}

	return validateScripts(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func validateScripts(cfg *config.Config, out, errOut io.Writer) error {
	hasErrors := false
	for _, script := range cfg.Scripts {
		if err := validateScript(script); err != nil {
			fmt.Fprintf(errOut, "Error in %s: %v\n", script.Name, err)
			hasErrors = true
		} else {
			fmt.Fprintf(out, "Valid: %s\n", script.Name)
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	return nil
}

func validateScript(script config.Script) error {
	if _, err := os.Stat(script.Name); err != nil {
		return fmt.Errorf("script: %w", err)
	}

	fixtures, err := fixture.Discover(script.Dir, script.BaseName())
	if err != nil {
		return err
	}

	var errs []error
	for _, fx := range fixtures {
		if _, err := os.Stat(fx.ExpectedPath); err != nil {
			errs = append(errs, fmt.Errorf("fixture %s: missing expected output: %w", fx.Name, err))
		}
	}
	return errors.Join(errs...)
}
