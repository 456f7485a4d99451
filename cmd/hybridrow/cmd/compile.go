/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/hybridrow/pkg/schema"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <sdl-file>",
	Short: "Compile schemas to row layouts",
	Long: `Compile every schema of a namespace, or only the one named by --schema, and
print the resulting row layouts.

Examples:
  hybridrow compile people.yaml
  hybridrow compile people.yaml --schema Person`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("schema")

		ns, err := loadNamespace(args[0])
		if err != nil {
			return err
		}

		schemas := ns.Schemas
		if name != "" {
			s, ok := ns.Index().SchemaByName(name)
			if !ok {
				return fmt.Errorf("schema %q not found in namespace %s", name, ns.Name)
			}
			schemas = []*schema.Schema{s}
		}

		cache := container.GetLayoutCache()
		for _, s := range schemas {
			l, err := cache.Layout(ns, s)
			if err != nil {
				return fmt.Errorf("schema %q: %w", s.Name, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), l.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("schema", "s", "", "Compile only the named schema")
}
