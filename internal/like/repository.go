// AngelaMos | 2026
// repository.go

package like

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/dating-api/internal/core"
)

type Repository interface {
	LikesOf(ctx context.Context, userID int64, dir Direction) ([]int64, error)
	Get(ctx context.Context, likerID, likeeID int64) (*Like, error)
	Create(ctx context.Context, l Like) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) LikesOf(
	ctx context.Context,
	userID int64,
	dir Direction,
) ([]int64, error) {
	var query string
	switch dir {
	case Likers:
		query = `SELECT liker_id FROM likes WHERE likee_id = $1 ORDER BY liker_id`
	case Likees:
		query = `SELECT likee_id FROM likes WHERE liker_id = $1 ORDER BY likee_id`
	default:
		return nil, fmt.Errorf("likes of: direction %d: %w", dir, core.ErrInvalidInput)
	}

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("likes of %s: %w", dir, err)
	}

	return ids, nil
}

func (r *repository) Get(
	ctx context.Context,
	likerID, likeeID int64,
) (*Like, error) {
	query := `
		SELECT liker_id, likee_id
		FROM likes
		WHERE liker_id = $1 AND likee_id = $2`

	var l Like
	err := r.db.GetContext(ctx, &l, query, likerID, likeeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get like: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}

	return &l, nil
}

func (r *repository) Create(ctx context.Context, l Like) error {
	query := `INSERT INTO likes (liker_id, likee_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, l.LikerID, l.LikeeID); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create like: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create like: %w", err)
	}

	return nil
}

func (r *repository) UserExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}
