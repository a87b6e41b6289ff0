package mkprebuilt

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"

	"github.com/pterm/pterm"
)

// WriteTable writes the builds and the copied files of r as tables to w.
// Copied paths are shown relative to destRoot.
func (r *Report) WriteTable(w io.Writer, destRoot string) error {
	builds := pterm.TableData{{"Target", "Command", "Status"}}
	for _, b := range r.Builds {
		status := "ok"
		switch {
		case r.DryRun:
			status = "dry-run"
		case b.Err != nil:
			status = b.Err.Error()
		}
		builds = append(builds, []string{b.Target.String(), b.Command, status})
	}
	tbl, err := pterm.DefaultTable.WithHasHeader().WithData(builds).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, tbl)

	copied := pterm.TableData{{"Profile", "Copied"}}
	for _, p := range slices.Sorted(maps.Keys(r.Copied)) {
		for _, c := range r.Copied[p] {
			if rel, err := filepath.Rel(destRoot, c); err == nil {
				c = rel
			}
			copied = append(copied, []string{p, c})
		}
	}
	if tbl, err = pterm.DefaultTable.WithHasHeader().WithData(copied).Srender(); err != nil {
		return err
	}
	fmt.Fprintln(w, tbl)

	for _, f := range r.Failures {
		fmt.Fprintf(w, "FAILED: %s\n", f.Error())
	}
	if !r.DryRun && !r.Cleaned {
		fmt.Fprintln(w, "build output was not removed")
	}
	return nil
}
