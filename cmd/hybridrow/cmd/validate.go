/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/schema"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <sdl-file>",
	Short: "Check a namespace document",
	Long: `Parse a namespace document (JSON or YAML) and check it for structural errors.

Example:
  hybridrow validate people.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := loadNamespace(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "namespace %s: %d schemas, %d enums\n", ns.Name, len(ns.Schemas), len(ns.Enums))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// loadNamespace reads and validates the namespace document at path
func loadNamespace(path string) (*schema.Namespace, error) {
	ns, err := schema.LoadNamespace(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(ns); err != nil {
		return nil, err
	}
	container.GetLogger().Debug("loaded namespace",
		zap.String("path", path),
		zap.String("namespace", ns.Name),
		zap.Int("schemas", len(ns.Schemas)))
	return ns, nil
}
