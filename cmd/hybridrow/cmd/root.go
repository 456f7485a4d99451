/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/hybridrow/pkg/config"
	"github.com/ssargent/hybridrow/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

var errNoContainer = errors.New("dependency container not initialized")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hybridrow",
	Short: "HybridRow - schema compiler and RecordIO toolkit",
	Long: `hybridrow compiles HybridRow schema namespaces into row layouts, writes
and reads RecordIO streams, and keeps a catalog of registered namespaces.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return errNoContainer
		}
		if cmd.Name() == "init" {
			return nil
		}

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return container.Configure(cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if err := container.GetLogger().Sync(); err != nil && !isBenignSyncError(err) {
			return err
		}
		return container.WriteMetrics()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/hybridrow/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
}

// stderr cannot be fsynced on most terminals and pipes
func isBenignSyncError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) && pathErr.Path == os.Stderr.Name()
}
