package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts and permissions",
	}
	cmd.AddCommand(
		newUserListCmd(a),
		newUserShowCmd(a),
		newUserAddCmd(a),
		newUserEditCmd(a),
		newUserToggleCmd(a),
	)
	return cmd
}

func parseCaps(names []string) ([]permission.Capability, error) {
	caps := make([]permission.Capability, 0, len(names))
	for _, n := range names {
		c, err := permission.Parse(n)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

func userID(arg string) (int, error) {
	return recordID("user", arg)
}

func newUserListCmd(a *app) *cobra.Command {
	var q projections.UserListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := projections.QueryUserList(s.ctx, q, s.proj)
				if err != nil {
					return err
				}
				if a.jsonOutput() {
					return writeJSON(a.stdout, res)
				}
				rows := make([][]string, 0, len(res.Rows))
				for _, u := range res.Rows {
					rows = append(rows, []string{
						strconv.Itoa(u.ID), u.Username, string(u.Role), yesNo(u.Active),
						strconv.Itoa(u.PermissionCount), orDash(u.LastLogin), orDash(u.CreatedBy),
					})
				}
				if err := table(a.stdout, []string{"id", "username", "role", "active", "perms", "last login", "created by"}, rows); err != nil {
					return err
				}
				pageFooter(a.stdout, res.Page)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Role, "role", "", "filter by role")
	cmd.Flags().StringVar(&q.Status, "status", "", "filter by status (active or inactive)")
	addPageFlags(cmd, &q.PageParams)
	return cmd
}

func newUserShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"permissions"},
		Short:   "Show a user and their permission matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				u, err := projections.QueryUserDetails(s.ctx, id, s.proj)
				if err != nil {
					return err
				}
				return a.printUser(u)
			})
		},
	}
}

func newUserAddCmd(a *app) *cobra.Command {
	var (
		in    orchestrators.SaveUserInput
		perms []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user; permissions default to the role's",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("perm") {
				caps, err := parseCaps(perms)
				if err != nil {
					return err
				}
				in.Permissions = permission.NewSet(caps...)
			} else if role, err := user.ParseRole(in.Role); err == nil {
				in.Permissions = user.DefaultPermissions(role)
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				saved, err := orchestrators.ExecuteSaveUser(s.ctx, in, s.orch)
				if err != nil {
					return err
				}
				return a.showUser(s, saved)
			})
		},
	}
	cmd.Flags().StringVar(&in.Username, "new-username", "", "username of the new account")
	cmd.Flags().StringVar(&in.Password, "new-password", "", "password of the new account")
	cmd.Flags().StringVar(&in.Role, "role", string(user.RoleViewer), "SENIOR_ADMIN|ADMIN|VIEWER")
	cmd.Flags().StringSliceVar(&perms, "perm", nil, "explicit capability list, e.g. create_audits,export_data")
	return cmd
}

func newUserEditCmd(a *app) *cobra.Command {
	var (
		in            orchestrators.SaveUserInput
		grant, revoke []string
		resetPerms    bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a user; a blank password keeps the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			granted, err := parseCaps(grant)
			if err != nil {
				return err
			}
			revoked, err := parseCaps(revoke)
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				if err := orchestrators.ExecuteOpenEditor(s.ctx, orchestrators.OpenEditorInput{Kind: workspace.EditUser, Key: strconv.Itoa(id)}, s.orch); err != nil {
					return err
				}
				st := s.runtime.Workspace.State()
				cur := st.Users[st.UserIndex(id)]
				if !cmd.Flags().Changed("new-username") {
					in.Username = cur.Username
				}
				if !cmd.Flags().Changed("role") {
					in.Role = string(cur.Role)
				}
				in.Permissions = cur.Permissions
				if resetPerms {
					role, _ := user.ParseRole(in.Role)
					in.Permissions = user.DefaultPermissions(role)
				}
				in.Permissions = in.Permissions.With(granted...).Without(revoked...)
				saved, err := orchestrators.ExecuteSaveUser(s.ctx, in, s.orch)
				if err != nil {
					orchestrators.ExecuteCancelEdit(s.orch)
					return err
				}
				return a.showUser(s, saved)
			})
		},
	}
	cmd.Flags().StringVar(&in.Username, "new-username", "", "rename the account")
	cmd.Flags().StringVar(&in.Password, "new-password", "", "set a new password")
	cmd.Flags().StringVar(&in.Role, "role", "", "SENIOR_ADMIN|ADMIN|VIEWER")
	cmd.Flags().StringSliceVar(&grant, "grant", nil, "capabilities to add")
	cmd.Flags().StringSliceVar(&revoke, "revoke", nil, "capabilities to remove")
	cmd.Flags().BoolVar(&resetPerms, "reset-permissions", false, "start from the role's default permissions")
	return cmd
}

func newUserToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(s *session) error {
				saved, err := orchestrators.ExecuteToggleUserStatus(s.ctx, orchestrators.ToggleUserStatusInput{UserID: id}, s.orch)
				if err != nil {
					return a.cancelled(err)
				}
				status := "inactive"
				if saved.Active {
					status = "active"
				}
				fmt.Fprintf(a.stdout, "%s is now %s.\n", saved.Username, status)
				return nil
			})
		},
	}
}

// showUser prints a saved user. Creators without manage_users only see a
// one-line acknowledgement.
func (a *app) showUser(s *session, saved user.User) error {
	u, err := projections.QueryUserDetails(s.ctx, saved.ID, s.proj)
	if errors.Is(err, workspace.ErrForbidden) {
		fmt.Fprintf(a.stdout, "Saved user %s (id %d).\n", saved.Username, saved.ID)
		return nil
	}
	if err != nil {
		return err
	}
	return a.printUser(u)
}

func (a *app) printUser(u projections.UserRow) error {
	if a.jsonOutput() {
		return writeJSON(a.stdout, u)
	}
	if err := fields(a.stdout, [][2]string{
		{"ID", strconv.Itoa(u.ID)},
		{"Username", u.Username},
		{"Role", string(u.Role)},
		{"Active", yesNo(u.Active)},
		{"Protected", yesNo(u.Protected)},
		{"Created", orDash(u.CreatedBy) + " at " + u.CreatedAt},
		{"Last login", orDash(u.LastLogin)},
	}); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout)
	rows := make([][]string, 0)
	for _, c := range permission.All() {
		rows = append(rows, []string{c.String(), yesNo(slices.Contains(u.Permissions, c.String()))})
	}
	return table(a.stdout, []string{"capability", "granted"}, rows)
}
