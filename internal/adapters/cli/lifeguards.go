package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
)

func newLifeguardsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lifeguards",
		Aliases: []string{"lg"},
		Short:   "Manage the lifeguard roster",
	}
	cmd.AddCommand(
		newLifeguardListCmd(a),
		newLifeguardShowCmd(a),
		newLifeguardAddCmd(a),
		newLifeguardNextCmd(a),
		newLifeguardEditCmd(a),
		newLifeguardDeleteCmd(a),
		newLifeguardStatsCmd(a),
	)
	return cmd
}

// sheetArg accepts "3" as well as "03".
func sheetArg(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return lifeguard.FormatSheetNumber(n)
	}
	return s
}

// recordID parses a numeric audit or user id, ignoring surrounding blanks.
func recordID(kind, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func addPageFlags(cmd *cobra.Command, p *listutil.PageParams) {
	cmd.Flags().IntVar(&p.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.PerPage, "per-page", 0, "rows per page (10, 20, 50 or 100; 0 shows all)")
}

func newLifeguardListCmd(a *app) *cobra.Command {
	var q projections.LifeguardListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lifeguards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := projections.QueryLifeguardList(s.ctx, q, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, res)
				}
				rows := make([][]string, 0, len(res.Rows))
				for _, r := range res.Rows {
					rows = append(rows, []string{
						r.SheetNumber, r.Name, r.HireDate, string(r.Status),
						strconv.Itoa(r.AuditCount), orDash(r.LastAuditDate),
					})
				}
				if err := table(a.stdout, []string{"sheet", "name", "hired", "status", "audits", "last audit"}, rows); err != nil {
					return err
				}
				pageFooter(a.stdout, res.Page)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by name")
	cmd.Flags().StringVar(&q.Status, "status", "", "filter by status (ACTIVE or INACTIVE)")
	cmd.Flags().StringVar(&q.Sort, "sort", projections.SortNameAsc, "name-asc|name-desc|date-asc|date-desc")
	addPageFlags(cmd, &q.PageParams)
	return cmd
}

func newLifeguardShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <sheet>",
		Short: "Show a lifeguard and their audits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				d, err := projections.QueryLifeguardDetails(s.ctx, sheetArg(args[0]), s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, d)
				}
				if err := fields(a.stdout, [][2]string{
					{"Sheet", d.SheetNumber + " (" + d.SheetName + ")"},
					{"Name", d.Name},
					{"Hired", d.HireDate},
					{"Status", string(d.Status)},
					{"Audits", strconv.Itoa(d.AuditCount)},
					{"Last audit", orDash(d.LastAuditDate)},
				}); err != nil {
					return err
				}
				if len(d.Audits) == 0 {
					return nil
				}
				fmt.Fprintln(a.stdout)
				if err := auditTable(a, d.Audits); err != nil {
					return err
				}
				report, err := projections.QueryMonthlyStats(s.ctx, d.Name, s.proj)
				if errors.Is(err, workspace.ErrForbidden) {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout)
				return monthlyTable(a, report)
			})
		},
	}
}

func newLifeguardAddCmd(a *app) *cobra.Command {
	var in orchestrators.SaveLifeguardInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lifeguard with the next sheet number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				saved, err := orchestrators.ExecuteSaveLifeguard(s.ctx, in, s.orch)
				if err != nil {
					return err
				}
				return a.printLifeguard(saved)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "lifeguard name")
	cmd.Flags().StringVar(&in.HireDate, "hire-date", "", "hire date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Status, "status", string(lifeguard.StatusActive), "ACTIVE or INACTIVE")
	return cmd
}

func newLifeguardNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next-sheet",
		Short: "Print the sheet number the next new lifeguard will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				sheet, err := projections.QueryNextSheetNumber(s.ctx, s.proj)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.stdout, sheet)
				return err
			})
		},
	}
}

func newLifeguardEditCmd(a *app) *cobra.Command {
	var in orchestrators.SaveLifeguardInput
	cmd := &cobra.Command{
		Use:   "edit <sheet>",
		Short: "Update a lifeguard; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet := sheetArg(args[0])
			return a.withSession(cmd.Context(), func(s *session) error {
				if err := orchestrators.ExecuteOpenEditor(s.ctx, orchestrators.OpenEditorInput{Kind: workspace.EditLifeguard, Key: sheet}, s.orch); err != nil {
					return err
				}
				st := s.runtime.Workspace.State()
				cur := st.Lifeguards[st.LifeguardIndex(sheet)]
				if !cmd.Flags().Changed("name") {
					in.Name = cur.Name
				}
				if !cmd.Flags().Changed("hire-date") {
					in.HireDate = cur.HireDate
				}
				if !cmd.Flags().Changed("status") {
					in.Status = string(cur.Status)
				}
				saved, err := orchestrators.ExecuteSaveLifeguard(s.ctx, in, s.orch)
				if err != nil {
					orchestrators.ExecuteCancelEdit(s.orch)
					return err
				}
				return a.printLifeguard(saved)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "lifeguard name")
	cmd.Flags().StringVar(&in.HireDate, "hire-date", "", "hire date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Status, "status", "", "ACTIVE or INACTIVE")
	return cmd
}

func newLifeguardDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sheet>",
		Short: "Delete a lifeguard; their audits are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				err := orchestrators.ExecuteDeleteLifeguard(s.ctx, orchestrators.DeleteLifeguardInput{SheetNumber: sheetArg(args[0])}, s.orch)
				return a.cancelled(err)
			})
		},
	}
}

func newLifeguardStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <name>",
		Short: "Show a lifeguard's monthly audit statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				report, err := orchestrators.ExecuteViewMonthlyStats(s.ctx, orchestrators.ViewMonthlyStatsInput{LifeguardName: args[0]}, s.orch)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, report)
				}
				return monthlyTable(a, report)
			})
		},
	}
}

func (a *app) printLifeguard(l lifeguard.Lifeguard) error {
	if a.jsonOutput() {
		return writeJSON(a.stdout, l)
	}
	return fields(a.stdout, [][2]string{
		{"Sheet", l.SheetNumber + " (" + l.SheetName + ")"},
		{"Name", l.Name},
		{"Hired", l.HireDate},
		{"Status", string(l.Status)},
	})
}

func monthlyTable(a *app, r audit.MonthlyReport) error {
	if len(r.Months) == 0 {
		fmt.Fprintf(a.stdout, "No audits recorded for %s.\n", r.LifeguardName)
		return nil
	}
	rows := make([][]string, 0, len(r.Months))
	for _, m := range r.Months {
		rows = append(rows, []string{
			m.Month, strconv.Itoa(m.Total),
			fmt.Sprintf("%d (%d%%)", m.Exceeds, m.ExceedsPercent),
			fmt.Sprintf("%d (%d%%)", m.Meets, m.MeetsPercent),
			fmt.Sprintf("%d (%d%%)", m.Fails, m.FailsPercent),
		})
	}
	if err := table(a.stdout, []string{"month", "total", "exceeds", "meets", "fails"}, rows); err != nil {
		return err
	}
	if r.BestMonth != nil {
		fmt.Fprintf(a.stdout, "Best month: %s (%d%% exceeds)\n", r.BestMonth.Month, r.BestMonth.ExceedsPercent)
	}
	if r.MostActiveMonth != nil {
		fmt.Fprintf(a.stdout, "Most active month: %s (%d audits)\n", r.MostActiveMonth.Month, r.MostActiveMonth.Total)
	}
	if r.Trend == audit.TrendInsufficientData {
		fmt.Fprintln(a.stdout, "Trend: insufficient data")
		return nil
	}
	fmt.Fprintf(a.stdout, "Trend: %s (%d%% to %d%% exceeds)\n", r.Trend, r.TrendFromPercent, r.TrendToPercent)
	return nil
}
