/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/hybridrow/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Write a default hybridrow configuration and create the catalog directory.

Examples:
  hybridrow init
  hybridrow init --catalog-dir ./schemas --config ./hybridrow.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		catalogDir, _ := cmd.Flags().GetString("catalog-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, catalogDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.CatalogDir, 0750); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}

		cmd.Printf("Wrote configuration to %s\n", configPath)
		cmd.Printf("Catalog directory: %s\n", cfg.CatalogDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("catalog-dir", "", "Catalog directory (default ./catalog)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
