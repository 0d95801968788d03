package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/audit"
)

func newAuditsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audits",
		Short: "Record and review lifeguard audits",
	}
	cmd.AddCommand(
		newAuditListCmd(a),
		newAuditShowCmd(a),
		newAuditAddCmd(a),
		newAuditEditCmd(a),
	)
	return cmd
}

func auditFlags(cmd *cobra.Command, in *orchestrators.SaveAuditInput) {
	cmd.Flags().StringVar(&in.LifeguardName, "lifeguard", "", "lifeguard name")
	cmd.Flags().StringVar(&in.Date, "date", "", "audit date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Time, "time", "", "audit time (HH:MM)")
	cmd.Flags().StringVar(&in.Type, "type", "", "Visual|VAT|Skill")
	cmd.Flags().StringVar(&in.SkillDetail, "skill", "", "skill tested, for Skill audits")
	cmd.Flags().StringVar(&in.AuditorName, "auditor", "", "auditor name")
	cmd.Flags().StringVar(&in.Result, "result", "", "EXCEEDS|MEETS|FAILS")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	cmd.Flags().StringVar(&in.FollowUp, "follow-up", "", "follow-up actions")
}

func newAuditListCmd(a *app) *cobra.Command {
	var q projections.AuditListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := projections.QueryAuditList(s.ctx, q, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, res)
				}
				if err := auditTable(a, res.Rows); err != nil {
					return err
				}
				pageFooter(a.stdout, res.Page)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by lifeguard name")
	cmd.Flags().StringVar(&q.Month, "month", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&q.Type, "type", "", "filter by type")
	cmd.Flags().StringVar(&q.Result, "result", "", "filter by result")
	addPageFlags(cmd, &q.PageParams)
	return cmd
}

func newAuditShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recordID("audit", args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				au, err := projections.QueryAuditDetails(s.ctx, id, s.proj)
				if err != nil {
					return err
				}
				return a.printAudit(au)
			})
		},
	}
}

func newAuditAddCmd(a *app) *cobra.Command {
	var in orchestrators.SaveAuditInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new audit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				saved, err := orchestrators.ExecuteSaveAudit(s.ctx, in, s.orch)
				if err != nil {
					return err
				}
				return a.printAudit(saved)
			})
		},
	}
	auditFlags(cmd, &in)
	return cmd
}

func newAuditEditCmd(a *app) *cobra.Command {
	var in orchestrators.SaveAuditInput
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update an audit; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recordID("audit", args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				if err := orchestrators.ExecuteOpenEditor(s.ctx, orchestrators.OpenEditorInput{Kind: workspace.EditAudit, Key: strconv.Itoa(id)}, s.orch); err != nil {
					return err
				}
				st := s.runtime.Workspace.State()
				overlayAudit(cmd, &in, st.Audits[st.AuditIndex(id)])
				saved, err := orchestrators.ExecuteSaveAudit(s.ctx, in, s.orch)
				if err != nil {
					orchestrators.ExecuteCancelEdit(s.orch)
					return err
				}
				return a.printAudit(saved)
			})
		},
	}
	auditFlags(cmd, &in)
	return cmd
}

// overlayAudit fills every flag the operator did not set from cur.
func overlayAudit(cmd *cobra.Command, in *orchestrators.SaveAuditInput, cur audit.Audit) {
	keep := func(flag string, dst *string, v string) {
		if !cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	keep("lifeguard", &in.LifeguardName, cur.LifeguardName)
	keep("date", &in.Date, cur.Date)
	keep("time", &in.Time, cur.Time)
	keep("type", &in.Type, string(cur.Type))
	keep("skill", &in.SkillDetail, cur.SkillDetail)
	keep("auditor", &in.AuditorName, cur.AuditorName)
	keep("result", &in.Result, string(cur.Result))
	keep("notes", &in.Notes, cur.Notes)
	keep("follow-up", &in.FollowUp, cur.FollowUp)
}

func auditTable(a *app, audits []audit.Audit) error {
	rows := make([][]string, 0, len(audits))
	for _, au := range audits {
		rows = append(rows, []string{
			strconv.Itoa(au.ID), au.Date, au.Time, au.LifeguardName,
			string(au.Type), string(au.Result), au.AuditorName,
		})
	}
	return table(a.stdout, []string{"id", "date", "time", "lifeguard", "type", "result", "auditor"}, rows)
}

func (a *app) printAudit(au audit.Audit) error {
	if a.jsonOutput() {
		return writeJSON(a.stdout, au)
	}
	pairs := [][2]string{
		{"ID", strconv.Itoa(au.ID)},
		{"Lifeguard", au.LifeguardName},
		{"When", au.Date + " " + au.Time},
		{"Type", string(au.Type)},
	}
	if au.Type == audit.TypeSkill {
		pairs = append(pairs, [2]string{"Skill", orDash(au.SkillDetail)})
	}
	pairs = append(pairs,
		[2]string{"Result", string(au.Result)},
		[2]string{"Auditor", au.AuditorName},
		[2]string{"Notes", orDash(au.Notes)},
		[2]string{"Follow-up", orDash(au.FollowUp)},
		[2]string{"Created", au.CreatedBy + " at " + au.CreatedAt.Format("2006-01-02 15:04")},
	)
	if au.Edited() {
		pairs = append(pairs, [2]string{"Last edited", *au.LastEditedBy + " at " + au.LastEditedAt.Format("2006-01-02 15:04")})
	}
	return fields(a.stdout, pairs)
}
