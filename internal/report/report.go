// Package report runs an extension check and renders its result.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/mvp-joe/extcheck/internal/extension"
)

// emptyList is printed in place of an empty name list.
const emptyList = "-"

const textTemplate = "Loaded extensions:\n%s\n\nUsed extensions:\n%s\n\nUsed extensions (non core):\n%s\n"

// Report is the outcome of one check: every loaded extension, the ones the
// code base uses, and the used ones that are not core. Names are sorted
// case-insensitively.
type Report struct {
	ScanID      string   `json:"scan_id"`
	Path        string   `json:"path"`
	Loaded      []string `json:"loaded"`
	Used        []string `json:"used"`
	UsedNonCore []string `json:"used_non_core"`
}

// New builds a report for path. Both inputs are sorted before rendering.
func New(path string, loaded, used []*extension.Extension) *Report {
	sortedUsed := extension.Sort(used)

	nonCore := make([]string, 0, len(sortedUsed))
	for _, ext := range sortedUsed {
		if !ext.IsCore() {
			nonCore = append(nonCore, ext.Name())
		}
	}

	return &Report{
		ScanID:      uuid.NewString(),
		Path:        path,
		Loaded:      extension.Names(extension.Sort(loaded)),
		Used:        extension.Names(sortedUsed),
		UsedNonCore: nonCore,
	}
}

// NonCoreOnly returns a copy whose Used list is restricted to non-core
// extensions.
func (r *Report) NonCoreOnly() *Report {
	c := *r
	c.Used = append([]string{}, r.UsedNonCore...)
	return &c
}

// WriteText renders the three lists in the plain text layout.
func (r *Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, textTemplate, joinNames(r.Loaded), joinNames(r.Used), joinNames(r.UsedNonCore))
	return err
}

// WriteJSON renders the report as an indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write renders the report in the named format ("text" or "json").
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "text", "":
		return r.WriteText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return emptyList
	}
	return strings.Join(names, ", ")
}
