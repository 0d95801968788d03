package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/application/orchestrators"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func (a *app) jsonOutput() bool {
	return a.output == outputJSON
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes tab-aligned rows under an upper-cased header.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// fields writes label/value pairs, one per line.
func fields(w io.Writer, pairs [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	return tw.Flush()
}

func pageFooter(w io.Writer, p listutil.PageInfo) {
	if p.Total == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}
	if p.ShowPagination() {
		fmt.Fprintf(w, "Showing %d-%d of %d (page %d of %d)\n", p.StartRow(), p.EndRow(), p.Total, p.Page, p.TotalPages)
	}
}

// cancelled reports a declined confirmation without failing the command.
func (a *app) cancelled(err error) error {
	if errors.Is(err, orchestrators.ErrCancelled) {
		fmt.Fprintln(a.stderr, "Cancelled.")
		return nil
	}
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
