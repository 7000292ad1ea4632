package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/handoff/config"
	"github.com/grovetools/handoff/logging"
)

// CommandOptions holds common options for handoff commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard handoff flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to handoff.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	entry := logging.NewLogger("handoff-cli")
	logger := entry.Logger

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		logger.SetLevel(logrus.WarnLevel)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		Quiet:      quiet,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig resolves the configuration for a command: the --config flag
// when given, otherwise the merged global and project configuration found
// from the working directory.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)

	var cfg *config.Config
	var err error
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cwd, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		cfg, err = config.LoadFrom(cwd)
	}
	if err != nil {
		return nil, err
	}

	if opts.Quiet {
		cfg.Quiet = true
	}
	return cfg, nil
}
