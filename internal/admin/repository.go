// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/dating-api/internal/core"
)

type Repository interface {
	Transact(ctx context.Context, fn func(tx Repository) error) error

	UsersWithRoles(ctx context.Context) ([]UserWithRoles, error)
	UserIDByUsername(ctx context.Context, username string) (int64, error)
	RolesOf(ctx context.Context, userID int64) ([]string, error)
	Grant(ctx context.Context, userID int64, role string) error
	Revoke(ctx context.Context, userID int64, role string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return core.Transact(ctx, r.db, func(tx core.DBTX) error {
		return fn(&repository{db: tx})
	})
}

// UsersWithRoles lists every user ordered by username, each with their
// roles in role creation order.
func (r *repository) UsersWithRoles(ctx context.Context) ([]UserWithRoles, error) {
	query := `
		SELECT u.id, u.username, COALESCE(r.name, '') AS role
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles r ON r.id = ur.role_id
		ORDER BY u.username, u.id, r.id`

	var rows []userRoleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list users with roles: %w", err)
	}

	users := []UserWithRoles{}
	for _, row := range rows {
		if n := len(users); n == 0 || users[n-1].ID != row.ID {
			users = append(users, UserWithRoles{
				ID:       row.ID,
				Username: row.Username,
				Roles:    []string{},
			})
		}
		if row.Role != "" {
			last := &users[len(users)-1]
			last.Roles = append(last.Roles, row.Role)
		}
	}

	return users, nil
}

func (r *repository) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	return id, nil
}

func (r *repository) RolesOf(ctx context.Context, userID int64) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.id`

	roles := []string{}
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (r *repository) Grant(ctx context.Context, userID int64, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("grant role %s: %w", role, err)
	}
	return nil
}

func (r *repository) Revoke(ctx context.Context, userID int64, role string) error {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1
		  AND role_id = (SELECT id FROM roles WHERE name = $2)`

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("revoke role %s: %w", role, err)
	}
	return nil
}
