package config

const (
	// DefaultConfigFile is the configuration file read when no path is given
	DefaultConfigFile = "config.json"

	// DefaultInterpreter is the executable used to run scripts under test
	DefaultInterpreter = "python"

	// ScriptExt is the token removed from a script name to get its base name
	ScriptExt = ".py"
)

// DefaultConfig returns a configuration with default values and no scripts
func DefaultConfig() *Config {
	return &Config{
		Interpreter: DefaultInterpreter,
	}
}
