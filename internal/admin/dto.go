// AngelaMos | 2026
// dto.go

package admin

type UserWithRoles struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type EditRolesRequest struct {
	RoleNames []string `json:"role_names" validate:"required,dive,required"`
}

type RolesResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type VipResponse struct {
	Message string `json:"message"`
}

// userRoleRow is one (user, role) pair; users without roles have an empty
// role name.
type userRoleRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Role     string `db:"role"`
}
