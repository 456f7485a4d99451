/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/layout"
	"github.com/ssargent/hybridrow/pkg/recordio"
	"github.com/ssargent/hybridrow/pkg/row"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <sdl-file> <stream-file>",
	Short: "Write JSON records to a RecordIO stream",
	Long: `Read JSON objects from stdin, encode each as a row of the schema named by
--schema and append it to a RecordIO stream. The stream starts with a segment
carrying the namespace. Object keys name top-level columns; null values are
left unset.

Example:
  echo '{"id": 1, "name": "ada"}' | hybridrow write people.yaml people.rio --schema Person`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("schema")
		comment, _ := cmd.Flags().GetString("comment")
		appendMode, _ := cmd.Flags().GetBool("append")

		ns, err := loadNamespace(args[0])
		if err != nil {
			return err
		}
		s, ok := ns.Index().SchemaByName(name)
		if !ok {
			return fmt.Errorf("schema %q not found in namespace %s", name, ns.Name)
		}
		resolver := compiler.NewNamespaceResolver(ns, container.GetLayoutCache())
		l, err := resolver.Resolve(s.SchemaID)
		if err != nil {
			return fmt.Errorf("schema %q: %w", s.Name, err)
		}

		if !appendMode {
			if err := os.Remove(args[1]); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to replace stream: %w", err)
			}
		}

		cfg := container.GetConfig()
		w, err := recordio.NewWriter(recordio.WriterConfig{
			FilePath:      args[1],
			BufferSize:    cfg.Stream.BufferSize,
			FsyncInterval: cfg.Stream.FsyncInterval,
			MaxRecordSize: cfg.Stream.MaxRecordSize,
			Logger:        container.GetLogger(),
			Metrics:       container.GetMetrics(),
		})
		if err != nil {
			return fmt.Errorf("failed to open stream: %w", err)
		}
		defer w.Close()

		if w.Size() == 0 {
			if _, err := w.WriteSegment(recordio.Segment{Comment: comment, Namespace: ns}); err != nil {
				return fmt.Errorf("failed to write segment: %w", err)
			}
		}

		b := row.New(0, nil)
		dec := json.NewDecoder(cmd.InOrStdin())
		dec.UseNumber()
		count := 0
		for {
			var obj map[string]any
			if err := dec.Decode(&obj); err == io.EOF {
				break
			} else if err != nil {
				return fmt.Errorf("record %d: %w", count, err)
			}
			if err := encodeRow(b, l, resolver, obj); err != nil {
				return fmt.Errorf("record %d: %w", count, err)
			}
			if _, err := w.WriteRecord(b.Bytes()); err != nil {
				return fmt.Errorf("record %d: %w", count, err)
			}
			count++
		}
		if err := w.Close(); err != nil {
			return err
		}

		container.GetLogger().Info("wrote stream",
			zap.String("path", args[1]),
			zap.String("schema", s.Name),
			zap.Int("records", count))
		cmd.Printf("Wrote %d records to %s\n", count, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringP("schema", "s", "", "Schema the records conform to (required)")
	writeCmd.Flags().String("comment", "", "Comment stored in the stream segment")
	writeCmd.Flags().Bool("append", false, "Append to an existing stream instead of replacing it")
	if err := writeCmd.MarkFlagRequired("schema"); err != nil {
		panic(err)
	}
}

// encodeRow resets b to an empty row of l and writes the fields of obj
func encodeRow(b *row.Buffer, l *layout.Layout, resolver layout.Resolver, obj map[string]any) error {
	if err := b.InitLayout(row.V1, l, resolver); err != nil {
		return err
	}
	c := b.RootCursor()

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := c.Find(k)
		if !ok {
			return fmt.Errorf("unknown column %q", k)
		}
		if col.Type().IsScope() {
			return fmt.Errorf("column %q: %s values are not supported", k, col.Type())
		}
		raw := obj[k]
		if raw == nil && !col.Type().IsNull() {
			continue
		}
		v, err := parseValue(col.Type(), raw)
		if err != nil {
			return fmt.Errorf("column %q: %w", k, err)
		}
		if err := b.WriteColumn(c, col, v); err != nil {
			return fmt.Errorf("column %q: %w", k, err)
		}
	}
	return nil
}
