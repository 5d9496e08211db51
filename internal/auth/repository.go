// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/dating-api/internal/core"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	RolesOf(ctx context.Context, userID int64) ([]string, error)
	Create(ctx context.Context, a NewAccount, role string) (int64, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*Account, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
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

// Create inserts the user and grants role in one transaction.
func (r *repository) Create(
	ctx context.Context,
	a NewAccount,
	role string,
) (int64, error) {
	var id int64

	err := core.Transact(ctx, r.db, func(tx core.DBTX) error {
		insertUser := `
			INSERT INTO users (
				username, password_hash, gender, known_as,
				date_of_birth, city, country
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`

		err := tx.GetContext(ctx, &id, insertUser,
			a.Username,
			a.PasswordHash,
			a.Gender,
			a.KnownAs,
			a.DateOfBirth,
			a.City,
			a.Country,
		)
		if err != nil {
			if core.IsUniqueViolation(err) {
				return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create account: %w", err)
		}

		grant := `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2`

		result, err := tx.ExecContext(ctx, grant, id, role)
		if err != nil {
			return fmt.Errorf("grant role: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("grant role: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("grant role %q: %w", role, core.ErrPersistence)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *repository) UpdatePasswordHash(
	ctx context.Context,
	userID int64,
	hash string,
) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	return nil
}
