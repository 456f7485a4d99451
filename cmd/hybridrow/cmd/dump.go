/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/hybridrow/pkg/recordio"
	"github.com/ssargent/hybridrow/pkg/row"
	"github.com/ssargent/hybridrow/pkg/schema"
)

type dumpedRecord struct {
	Index  int            `json:"index"`
	Schema string         `json:"schema,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <stream-file>",
	Short: "Print the records of a RecordIO stream as JSON",
	Long: `Read a RecordIO stream, verify every record checksum and print each record
as one JSON object per line, decoded with the namespace of its segment.

Example:
  hybridrow dump people.rio`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.GetConfig()
		r, err := recordio.NewReader(recordio.ReaderConfig{
			FilePath:      args[0],
			MaxRecordSize: cfg.Stream.MaxRecordSize,
			Logger:        container.GetLogger(),
			Cache:         container.GetLayoutCache(),
		})
		if err != nil {
			return fmt.Errorf("failed to open stream: %w", err)
		}
		defer r.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		var segment *recordio.Segment
		b := row.New(0, nil)
		it := r.Iterator()
		for i := 0; it.Next(); i++ {
			if seg := r.Segment(); seg != segment {
				segment = seg
				cmd.Printf("Segment: %q\n", seg.Comment)
			}

			rec := dumpedRecord{Index: i}
			if len(it.Body()) > 0 {
				resolver, err := r.Resolver()
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if err := b.ReadFrom(it.Body(), row.V1, resolver); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if rec.Fields, err = decodeRow(b); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				rec.Schema = b.Layout().Name()
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// decodeRow returns the present top-level values of the row in b
func decodeRow(b *row.Buffer) (map[string]any, error) {
	c := b.RootCursor()
	fields := make(map[string]any)
	for _, col := range b.Layout().Columns() {
		if col.Parent() != nil || col.Storage() == schema.StorageSparse {
			continue
		}
		v, err := b.ReadColumn(c, col)
		if errors.Is(err, row.NotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Path(), err)
		}
		fields[col.Path()] = formatValue(v)
	}

	sparse, err := b.SparseFields(c)
	if err != nil {
		return nil, err
	}
	for _, f := range sparse {
		fields[f.Path] = formatValue(f.Value)
	}
	return fields, nil
}
