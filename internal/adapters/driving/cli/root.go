// Package cli wires the application together and exposes its commands.
package cli

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/logger"
)

// version is the application version, overridable at link time.
var version = "0.2.0"

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your PDF documents",
	Long: `docqa ingests PDF documents, indexes their content as vector
embeddings and answers questions grounded in the indexed text.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Secrets usually arrive via a .env file during development.
		if envFile != "" {
			godotenv.Load(envFile) //nolint:errcheck
		} else {
			godotenv.Load() //nolint:errcheck
		}
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default ~/.docqa/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file with secrets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// configPath resolves the config file location.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docqa", "config.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
