package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"treasurecove/internal/application/listutil"
	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/user"
)

// UserListQuery carries filters for the user list.
type UserListQuery struct {
	Role   string
	Status string // active, inactive or empty for all
	listutil.PageParams
}

// UserRow is a user without the password hash.
type UserRow struct {
	ID              int       `json:"id"`
	Username        string    `json:"username"`
	Role            user.Role `json:"role"`
	Active          bool      `json:"active"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       string    `json:"created_date"`
	LastLogin       string    `json:"last_login"`
	Permissions     []string  `json:"permissions"`
	PermissionCount int       `json:"permission_count"`
	Protected       bool      `json:"protected"`
}

func newUserRow(u user.User) UserRow {
	row := UserRow{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		Active:          u.Active,
		CreatedBy:       u.CreatedBy,
		Permissions:     []string{},
		PermissionCount: u.Permissions.Count(),
		Protected:       u.IsProtected(),
	}
	for _, c := range u.Permissions.List() {
		row.Permissions = append(row.Permissions, c.String())
	}
	if !u.CreatedAt.IsZero() {
		row.CreatedAt = u.CreatedAt.Format("2006-01-02")
	}
	if u.LastLogin != nil {
		row.LastLogin = u.LastLogin.Format("2006-01-02 15:04")
	}
	return row
}

// UserListResult carries the filtered page.
type UserListResult struct {
	Rows []UserRow         `json:"rows"`
	Page listutil.PageInfo `json:"page"`
}

// QueryUserList filters and pages users by id.
// PRE: Actor holds manage_users
func QueryUserList(ctx context.Context, q UserListQuery, deps Deps) (UserListResult, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionUsers); err != nil {
		return UserListResult{}, err
	}
	var role user.Role
	if strings.TrimSpace(q.Role) != "" {
		r, err := user.ParseRole(q.Role)
		if err != nil {
			return UserListResult{}, err
		}
		role = r
	}
	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status != "" && status != "active" && status != "inactive" {
		return UserListResult{}, fmt.Errorf("status must be active or inactive, got %q", q.Status)
	}

	rows := []UserRow{}
	for _, u := range ws.State().Users {
		if role != "" && u.Role != role {
			continue
		}
		if status != "" && u.Active != (status == "active") {
			continue
		}
		rows = append(rows, newUserRow(u))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	page, info := listutil.Paginate(rows, q.PageParams)
	return UserListResult{Rows: page, Page: info}, nil
}

// QueryUserDetails returns one user.
// PRE: Actor holds manage_users
func QueryUserDetails(ctx context.Context, id int, deps Deps) (UserRow, error) {
	ws := deps.Workspace
	if _, err := viewer(ctx, ws, permission.SectionUsers); err != nil {
		return UserRow{}, err
	}
	st := ws.State()
	i := st.UserIndex(id)
	if i < 0 {
		return UserRow{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return newUserRow(st.Users[i]), nil
}
