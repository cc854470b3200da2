package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	yamlInit  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new fixspec project",
	Long: `Initialize a new fixspec project in the current directory.

This creates:
  - config.json (or fixspec.yaml with --yaml) mapping the example script
  - example.py                                 an example script under test
  - tests/example/example_case1.stdin|.out     an example fixture

Examples:
  fixspec init
  fixspec init --yaml
  fixspec init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&yamlInit, "yaml", false, "Write the configuration as fixspec.yaml")
}

const exampleScript = `a, b = map(int, input().split())
print(a + b)
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return initProject(cwd, yamlInit, forceInit, cmd.OutOrStdout())
}

func initProject(dir string, useYAML, force bool, out io.Writer) error {
	configName := config.DefaultConfigFile
	if useYAML {
		configName = "fixspec.yaml"
	}

	fixtureDir := filepath.Join("tests", "example")
	configFile := filepath.Join(dir, configName)
	scriptFile := filepath.Join(dir, "example.py")
	inputFile := filepath.Join(dir, fixtureDir, "example_case1"+fixture.InputExt)
	outputFile := filepath.Join(dir, fixtureDir, "example_case1"+fixture.OutputExt)

	if !force {
		for _, f := range []string{configFile, scriptFile, inputFile, outputFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Scripts = []config.Script{{Name: "example.py", Dir: filepath.ToSlash(fixtureDir)}}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(out, "Created: %s\n", configFile)

	if err := os.WriteFile(scriptFile, []byte(exampleScript), 0644); err != nil {
		return fmt.Errorf("failed to create example script: %w", err)
	}
	fmt.Fprintf(out, "Created: %s\n", scriptFile)

	if err := os.MkdirAll(filepath.Join(dir, fixtureDir), 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}
	for path, content := range map[string]string{inputFile: "2 3\n", outputFile: "5\n"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create fixture: %w", err)
		}
		fmt.Fprintf(out, "Created: %s\n", path)
	}

	fmt.Fprintf(out, "\nRun the example with:\n  fixspec run example.py\n")
	if useYAML {
		fmt.Fprintf(out, "  (add --config %s)\n", configName)
	}
	return nil
}
