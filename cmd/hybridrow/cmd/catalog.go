/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/hybridrow/pkg/catalog"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the namespace catalog",
	Long: `Register, list, show and delete namespaces in the catalog. The catalog
directory is taken from the configuration file.`,
}

var catalogRegisterCmd = &cobra.Command{
	Use:   "register <sdl-file>",
	Short: "Register a namespace",
	Long: `Validate and compile a namespace, then store it in the catalog. Registering
a namespace that is already present returns the existing entry.

Example:
  hybridrow catalog register people.yaml --comment "people v1"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comment, _ := cmd.Flags().GetString("comment")

		sdl, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}

		return withCatalog(func(c *catalog.Catalog) error {
			entry, created, err := c.Register(comment, sdl)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("Registered namespace %s\n", entry.Segment.Namespace.Name)
			} else {
				cmd.Printf("Namespace %s is already registered\n", entry.Segment.Namespace.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
			return nil
		})
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered namespaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withCatalog(func(c *catalog.Catalog) error {
			entries, err := c.List()
			if err != nil {
				return err
			}
			return outputEntries(cmd.OutOrStdout(), format, entries)
		})
	},
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a registered namespace",
	Long: `Show a registered namespace. With --sdl only the stored schema document is
printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		sdlOnly, _ := cmd.Flags().GetBool("sdl")

		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		return withCatalog(func(c *catalog.Catalog) error {
			entry, err := c.Get(id)
			if err != nil {
				return err
			}
			if sdlOnly {
				fmt.Fprintln(cmd.OutOrStdout(), entry.Segment.SDL)
				return nil
			}
			return outputEntry(cmd.OutOrStdout(), format, entry)
		})
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a registered namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		return withCatalog(func(c *catalog.Catalog) error {
			if err := c.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogRegisterCmd, catalogListCmd, catalogGetCmd, catalogDeleteCmd)

	catalogRegisterCmd.Flags().String("comment", "", "Comment stored with the namespace")
	catalogListCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	catalogGetCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	catalogGetCmd.Flags().Bool("sdl", false, "Print only the schema document")
}

// withCatalog opens the configured catalog for the duration of fn
func withCatalog(fn func(c *catalog.Catalog) error) error {
	cfg := container.GetConfig()
	c, err := catalog.Open(cfg.CatalogDir, catalog.Options{
		Sync:    true,
		Logger:  container.GetLogger(),
		Metrics: container.GetMetrics(),
		Cache:   container.GetLayoutCache(),
	})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
