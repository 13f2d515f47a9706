package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"scheintool/internal"
	"scheintool/internal/config"
	"scheintool/internal/container"
)

func main() {
	// an optional .env next to the working directory provides SCHEINTOOL_* defaults
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "scheintool",
		Short:         "Generate course certificates and grade tables from LSF and grade exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newCourseCmd(),
		newSettingsCmd(),
		newLayoutCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer reads the environment configuration, applies overrides and
// builds the dependency container
func loadContainer(override func(*config.Config)) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	internal.DefaultLogger = logger
	return container.New(cfg, logger)
}
