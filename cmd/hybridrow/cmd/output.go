package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/hybridrow/pkg/catalog"
)

type entryView struct {
	ID          string    `json:"id"`
	Created     time.Time `json:"created"`
	Namespace   string    `json:"namespace"`
	Schemas     []string  `json:"schemas"`
	Fingerprint string    `json:"fingerprint"`
	Comment     string    `json:"comment,omitempty"`
}

func viewOf(entry catalog.Entry) entryView {
	v := entryView{
		ID:          entry.ID.String(),
		Created:     entry.Created().UTC(),
		Fingerprint: fmt.Sprintf("%016x", entry.Fingerprint),
		Comment:     entry.Segment.Comment,
	}
	if ns := entry.Segment.Namespace; ns != nil {
		v.Namespace = ns.Name
		for _, s := range ns.Schemas {
			v.Schemas = append(v.Schemas, fmt.Sprintf("%s(%d)", s.Name, s.SchemaID))
		}
	}
	return v
}

// outputEntry displays a single catalog entry
func outputEntry(w io.Writer, format string, entry catalog.Entry) error {
	if format == "json" {
		return outputJSON(w, viewOf(entry))
	}

	v := viewOf(entry)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Namespace:\t%s\n", v.Namespace)
	fmt.Fprintf(tw, "Schemas:\t%s\n", formatStringSlice(v.Schemas))
	fmt.Fprintf(tw, "Fingerprint:\t%s\n", v.Fingerprint)
	if v.Comment != "" {
		fmt.Fprintf(tw, "Comment:\t%s\n", v.Comment)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", v.Created.Format(time.RFC3339))
	return nil
}

// outputEntries displays multiple catalog entries
func outputEntries(w io.Writer, format string, entries []catalog.Entry) error {
	if format == "json" {
		views := make([]entryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, viewOf(e))
		}
		return outputJSON(w, views)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No namespaces registered")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAMESPACE\tSCHEMAS\tCOMMENT\tCREATED")
	for _, e := range entries {
		v := viewOf(e)
		comment := v.Comment
		if len(comment) > 40 {
			comment = comment[:37] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			v.ID,
			v.Namespace,
			len(v.Schemas),
			comment,
			v.Created.Format("2006-01-02 15:04"))
	}
	return nil
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatStringSlice formats a slice of strings for display
func formatStringSlice(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	result := slice[0]
	for i := 1; i < len(slice); i++ {
		result += ", " + slice[i]
	}
	return result
}
