package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/domain/user"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show headline counts and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				d, err := projections.QueryDashboard(s.ctx, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, d)
				}
				if err := fields(a.stdout, [][2]string{
					{"Signed in as", d.Username},
					{"Active lifeguards", strconv.Itoa(d.ActiveLifeguards)},
					{"Total audits", strconv.Itoa(d.TotalAudits)},
					{"Audits this month", strconv.Itoa(d.AuditsThisMonth)},
					{"Pass rate", strconv.Itoa(d.PassRate) + "%"},
				}); err != nil {
					return err
				}
				if len(d.ResultsBreakdown) > 0 {
					fmt.Fprintln(a.stdout)
					rows := make([][]string, 0, len(d.ResultsBreakdown))
					for _, rc := range d.ResultsBreakdown {
						rows = append(rows, []string{string(rc.Result), strconv.Itoa(rc.Count)})
					}
					if err := table(a.stdout, []string{"result", "count"}, rows); err != nil {
						return err
					}
				}
				if len(d.RecentActivity) > 0 {
					fmt.Fprintln(a.stdout)
					return activityTable(a, d.RecentActivity)
				}
				return nil
			})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and what they can reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				nav, err := projections.QueryNavigation(s.ctx, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, nav)
				}
				sections := make([]string, 0, len(nav.Sections))
				for _, sec := range nav.Sections {
					sections = append(sections, string(sec))
				}
				controls := make([]string, 0, len(nav.Controls))
				for _, c := range nav.Controls {
					controls = append(controls, string(c))
				}
				return fields(a.stdout, [][2]string{
					{"User", nav.Username},
					{"Role", string(nav.Role)},
					{"Sections", orDash(strings.Join(sections, ", "))},
					{"Controls", orDash(strings.Join(controls, ", "))},
				})
			})
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		in      orchestrators.ExportInput
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export <audits|lifeguards|activity|monthly>",
		Short: "Export a dataset as csv, json, markdown or html",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Dataset = args[0]
			return a.withSession(cmd.Context(), func(s *session) (err error) {
				if outPath == "" || outPath == "-" {
					return orchestrators.ExecuteExport(s.ctx, in, a.stdout, s.orch)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				if err := orchestrators.ExecuteExport(s.ctx, in, f, s.orch); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "Wrote %s\n", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Format, "format", "f", "", "csv|json|markdown|html (default depends on the dataset)")
	cmd.Flags().StringVar(&in.LifeguardName, "lifeguard", "", "lifeguard for the monthly report")
	cmd.Flags().StringVar(&outPath, "out", "", "file to write instead of stdout")
	return cmd
}

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show account, audit and store metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				m, err := projections.QueryAdminMetrics(s.ctx, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, m)
				}
				pairs := [][2]string{
					{"Active users", strconv.Itoa(m.ActiveUsers)},
					{"Inactive users", strconv.Itoa(m.InactiveUsers)},
					{"Activity entries", strconv.Itoa(m.ActivityEntries)},
				}
				for _, role := range user.ValidRoles {
					pairs = append(pairs, [2]string{string(role) + " users", strconv.Itoa(m.UsersByRole[role])})
				}
				pairs = append(pairs,
					[2]string{"Flushes", fmt.Sprintf("%d (%d failed)", m.Storage.Flushes, m.Storage.FailedFlushes)},
					[2]string{"Flush p50/p95", fmt.Sprintf("%.1fms / %.1fms", m.Storage.FlushP50Ms, m.Storage.FlushP95Ms)},
				)
				if err := fields(a.stdout, pairs); err != nil {
					return err
				}
				if len(m.AuditsByAuditor) > 0 {
					fmt.Fprintln(a.stdout)
					rows := make([][]string, 0, len(m.AuditsByAuditor))
					for _, nc := range m.AuditsByAuditor {
						rows = append(rows, []string{nc.Name, strconv.Itoa(nc.Count)})
					}
					if err := table(a.stdout, []string{"auditor", "audits"}, rows); err != nil {
						return err
					}
				}
				if len(m.Storage.SlowestOps) > 0 {
					fmt.Fprintln(a.stdout)
					return timingTable(a, m.Storage.SlowestOps)
				}
				return nil
			})
		},
	}
}

func timingTable(a *app, stats []perf.NameStat) error {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			st.Name, strconv.Itoa(st.Count),
			fmt.Sprintf("%.2f", st.AvgMs), fmt.Sprintf("%.2f", st.MaxMs),
		})
	}
	return table(a.stdout, []string{"operation", "count", "avg ms", "max ms"}, rows)
}
