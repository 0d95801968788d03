package cli

import (
	"github.com/spf13/cobra"

	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/domain/activity"
)

func newActivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Review or clear the activity log",
	}
	cmd.AddCommand(newActivityListCmd(a), newActivityClearCmd(a))
	return cmd
}

func newActivityListCmd(a *app) *cobra.Command {
	var q projections.ActivityLogQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := projections.QueryActivityLog(s.ctx, q, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, res)
				}
				if err := activityTable(a, res.Rows); err != nil {
					return err
				}
				pageFooter(a.stdout, res.Page)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by user or details")
	cmd.Flags().StringVar(&q.Action, "action", "", "filter by action, e.g. LOGIN")
	addPageFlags(cmd, &q.PageParams)
	return cmd
}

func newActivityClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every activity entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				return a.cancelled(orchestrators.ExecuteClearActivityLog(s.ctx, s.orch))
			})
		},
	}
}

func activityTable(a *app, entries []activity.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04"), e.User, string(e.Action), e.Details,
		})
	}
	return table(a.stdout, []string{"time", "user", "action", "details"}, rows)
}
