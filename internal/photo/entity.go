// AngelaMos | 2026
// entity.go

package photo

import (
	"database/sql"
	"time"
)

type Photo struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	URL         string         `db:"url"`
	Description string         `db:"description"`
	DateAdded   time.Time      `db:"date_added"`
	IsMain      bool           `db:"is_main"`
	IsApproved  bool           `db:"is_approved"`
	PublicID    sql.NullString `db:"public_id"`
}

// PendingPhoto is an unapproved photo with its owner's username.
type PendingPhoto struct {
	Photo
	Username string `db:"username"`
}
