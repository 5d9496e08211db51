// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/query"
)

type Repository interface {
	Transact(ctx context.Context, fn func(tx Repository) error) error

	List(ctx context.Context, b *query.Builder, limit, offset int) ([]Row, int, error)
	Thread(ctx context.Context, userID, otherID int64) ([]Row, error)
	Get(ctx context.Context, id int64) (*Message, error)
	GetForUpdate(ctx context.Context, id int64) (*Message, error)
	GetRow(ctx context.Context, id int64) (*Row, error)
	Create(ctx context.Context, m *Message) error
	MarkRead(ctx context.Context, id int64, at time.Time) error
	SetDeleted(ctx context.Context, id int64, sender, recipient bool) error
	Purge(ctx context.Context, id int64) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const rowSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.content, m.is_read,
	       m.date_read, m.message_sent, m.sender_deleted, m.recipient_deleted,
	       s.known_as AS sender_known_as, sp.url AS sender_photo_url,
	       r.known_as AS recipient_known_as, rp.url AS recipient_photo_url
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.recipient_id
	LEFT JOIN photos sp ON sp.user_id = s.id AND sp.is_main AND sp.is_approved
	LEFT JOIN photos rp ON rp.user_id = r.id AND rp.is_main AND rp.is_approved`

func (r *repository) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return core.Transact(ctx, r.db, func(tx core.DBTX) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) List(
	ctx context.Context,
	b *query.Builder,
	limit, offset int,
) (rows []Row, total int, err error) {
	ctx, span := core.StartSpan(ctx, "message.List",
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)
	defer func() { core.EndSpan(span, err) }()

	where := b.WhereClause()

	countQuery := "SELECT COUNT(*) FROM messages m WHERE " + where
	if err = r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	pageClause, args := b.Page(limit, offset)
	listQuery := fmt.Sprintf("%s\nWHERE %s\n%s\n%s",
		rowSelect, where, b.OrderClause(), pageClause)

	rows = []Row{}
	if err = r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	return rows, total, nil
}

// Thread returns both directions between userID and otherID, each side
// hidden once its owner deleted it.
func (r *repository) Thread(ctx context.Context, userID, otherID int64) ([]Row, error) {
	query := rowSelect + `
		WHERE (m.recipient_id = $1 AND NOT m.recipient_deleted AND m.sender_id = $2)
		   OR (m.recipient_id = $2 AND m.sender_id = $1 AND NOT m.sender_deleted)
		ORDER BY m.message_sent DESC, m.id DESC`

	rows := []Row{}
	if err := r.db.SelectContext(ctx, &rows, query, userID, otherID); err != nil {
		return nil, fmt.Errorf("message thread: %w", err)
	}

	return rows, nil
}

const messageSelect = `
	SELECT id, sender_id, recipient_id, content, is_read, date_read,
	       message_sent, sender_deleted, recipient_deleted
	FROM messages
	WHERE id = $1`

func (r *repository) Get(ctx context.Context, id int64) (*Message, error) {
	return r.get(ctx, messageSelect, id)
}

// GetForUpdate holds the row lock until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Message, error) {
	return r.get(ctx, messageSelect+" FOR UPDATE", id)
}

func (r *repository) get(ctx context.Context, query string, id int64) (*Message, error) {
	var m Message
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &m, nil
}

func (r *repository) GetRow(ctx context.Context, id int64) (*Row, error) {
	var row Row
	err := r.db.GetContext(ctx, &row, rowSelect+" WHERE m.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get message: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	return &row, nil
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, message_sent`

	err := r.db.QueryRowxContext(ctx, query, m.SenderID, m.RecipientID, m.Content).
		Scan(&m.ID, &m.MessageSent)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) MarkRead(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, "mark message read",
		`UPDATE messages SET is_read = TRUE, date_read = $2 WHERE id = $1`, id, at)
}

// SetDeleted only ever sets flags. A false argument leaves that side alone.
func (r *repository) SetDeleted(ctx context.Context, id int64, sender, recipient bool) error {
	return r.update(ctx, "delete message",
		`UPDATE messages
		 SET sender_deleted = sender_deleted OR $2,
		     recipient_deleted = recipient_deleted OR $3
		 WHERE id = $1`, id, sender, recipient)
}

func (r *repository) Purge(ctx context.Context, id int64) error {
	return r.update(ctx, "purge message", `DELETE FROM messages WHERE id = $1`, id)
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

func (r *repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}
