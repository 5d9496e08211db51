// AngelaMos | 2026
// repository.go

package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/query"
)

type Repository interface {
	List(ctx context.Context, b *query.Builder, limit, offset int) ([]Row, int, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Photos(ctx context.Context, userID int64, includeUnapproved bool) ([]Photo, error)
	Update(ctx context.Context, u *User) error
	TouchLastActive(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	u.id, u.username, u.password_hash, u.gender, u.date_of_birth, u.known_as,
	u.created, u.last_active, u.introduction, u.looking_for, u.interests,
	u.city, u.country`

// List counts every row the builder matches, then loads one page of them
// in the builder's order.
func (r *repository) List(
	ctx context.Context,
	b *query.Builder,
	limit, offset int,
) (rows []Row, total int, err error) {
	ctx, span := core.StartSpan(ctx, "member.List",
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)
	defer func() { core.EndSpan(span, err) }()

	where := b.WhereClause()

	countQuery := "SELECT COUNT(*) FROM users u WHERE " + where
	if err = r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	pageClause, args := b.Page(limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT %s, p.url AS photo_url
		FROM users u
		LEFT JOIN photos p
		       ON p.user_id = u.id AND p.is_main AND p.is_approved
		WHERE %s
		%s
		%s`,
		userColumns, where, b.OrderClause(), pageClause)

	rows = []Row{}
	if err = r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	span.SetAttributes(attribute.Int("total", total))
	return rows, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := "SELECT " + userColumns + " FROM users u WHERE u.id = $1"

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) Photos(
	ctx context.Context,
	userID int64,
	includeUnapproved bool,
) ([]Photo, error) {
	query := `
		SELECT id, url, description, date_added, is_main, is_approved
		FROM photos
		WHERE user_id = $1 AND (is_approved OR $2)
		ORDER BY is_main DESC, date_added, id`

	photos := []Photo{}
	if err := r.db.SelectContext(ctx, &photos, query, userID, includeUnapproved); err != nil {
		return nil, fmt.Errorf("list photos for user: %w", err)
	}

	return photos, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET introduction = $2, looking_for = $3, interests = $4,
		    city = $5, country = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Introduction,
		u.LookingFor,
		u.Interests,
		u.City,
		u.Country,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update user: %w", core.ErrPersistence)
	}

	return nil
}

func (r *repository) TouchLastActive(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_active = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}

	return nil
}
