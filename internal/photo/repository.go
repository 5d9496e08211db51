// AngelaMos | 2026
// repository.go

package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/dating-api/internal/core"
)

type Repository interface {
	// Transact runs fn in a transaction holding a row lock on the user, so
	// main-photo decisions for that user are serialised.
	Transact(ctx context.Context, userID int64, fn func(tx Repository) error) error

	Get(ctx context.Context, id int64) (*Photo, error)
	MainFor(ctx context.Context, userID int64) (*Photo, error)
	Create(ctx context.Context, p *Photo) error
	SetMain(ctx context.Context, id int64, isMain bool) error
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (int64, error)
	Pending(ctx context.Context) ([]PendingPhoto, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const photoColumns = `
	id, user_id, url, description, date_added, is_main, is_approved, public_id`

func (r *repository) Transact(
	ctx context.Context,
	userID int64,
	fn func(tx Repository) error,
) error {
	return core.Transact(ctx, r.db, func(tx core.DBTX) error {
		var locked int64
		err := tx.GetContext(ctx, &locked,
			`SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock user photos: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock user photos: %w", err)
		}

		return fn(&repository{db: tx})
	})
}

func (r *repository) Get(ctx context.Context, id int64) (*Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos WHERE id = $1"

	var p Photo
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get photo: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get photo: %w", err)
	}

	return &p, nil
}

func (r *repository) MainFor(ctx context.Context, userID int64) (*Photo, error) {
	query := "SELECT " + photoColumns + " FROM photos WHERE user_id = $1 AND is_main"

	var p Photo
	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get main photo: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get main photo: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Photo) error {
	query := `
		INSERT INTO photos (
			user_id, url, description, is_main, is_approved, public_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date_added`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.URL,
		p.Description,
		p.IsMain,
		p.IsApproved,
		p.PublicID,
	).Scan(&p.ID, &p.DateAdded)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create photo: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create photo: %w", err)
	}

	return nil
}

func (r *repository) SetMain(ctx context.Context, id int64, isMain bool) error {
	return r.update(ctx, "set main photo",
		`UPDATE photos SET is_main = $2 WHERE id = $1`, id, isMain)
}

func (r *repository) Approve(ctx context.Context, id int64) error {
	return r.update(ctx, "approve photo",
		`UPDATE photos SET is_approved = TRUE WHERE id = $1`, id)
}

func (r *repository) update(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrPersistence)
	}

	return nil
}

// Delete removes the row and reports how many rows went.
func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete photo: %w", err)
	}

	return rows, nil
}

func (r *repository) Pending(ctx context.Context) ([]PendingPhoto, error) {
	query := `
		SELECT p.id, p.user_id, p.url, p.description, p.date_added,
		       p.is_main, p.is_approved, p.public_id, u.username
		FROM photos p
		JOIN users u ON u.id = p.user_id
		WHERE NOT p.is_approved
		ORDER BY p.date_added, p.id`

	photos := []PendingPhoto{}
	if err := r.db.SelectContext(ctx, &photos, query); err != nil {
		return nil, fmt.Errorf("list pending photos: %w", err)
	}

	return photos, nil
}

func (r *repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
