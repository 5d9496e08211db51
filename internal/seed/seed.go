// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
)

//go:embed users.json
var usersJSON []byte

const (
	AdminUsername = "admin"
	dateLayout    = "2006-01-02"
)

type seedPhoto struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type seedUser struct {
	Username     string      `json:"username"`
	Gender       string      `json:"gender"`
	DateOfBirth  string      `json:"date_of_birth"`
	KnownAs      string      `json:"known_as"`
	Created      time.Time   `json:"created"`
	LastActive   time.Time   `json:"last_active"`
	Introduction string      `json:"introduction"`
	LookingFor   string      `json:"looking_for"`
	Interests    string      `json:"interests"`
	City         string      `json:"city"`
	Country      string      `json:"country"`
	Photos       []seedPhoto `json:"photos"`
}

func loadUsers() ([]seedUser, error) {
	var users []seedUser
	if err := json.Unmarshal(usersJSON, &users); err != nil {
		return nil, fmt.Errorf("decode seed users: %w", err)
	}
	return users, nil
}

// Run populates an empty database with the roles, the sample members and
// an admin account. It does nothing once any user exists.
func Run(ctx context.Context, db core.DBTX, password string) error {
	var populated bool
	if err := db.GetContext(ctx, &populated,
		`SELECT EXISTS (SELECT 1 FROM users)`); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if populated {
		slog.Debug("seed skipped, users present")
		return nil
	}

	users, err := loadUsers()
	if err != nil {
		return err
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	err = core.Transact(ctx, db, func(tx core.DBTX) error {
		for _, role := range access.AllRoles {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
				role); err != nil {
				return fmt.Errorf("seed role %s: %w", role, err)
			}
		}

		for _, u := range users {
			if err := createMember(ctx, tx, u, hash); err != nil {
				return err
			}
		}

		return createAdmin(ctx, tx, hash)
	})
	if err != nil {
		return err
	}

	slog.Info("database seeded", "members", len(users), "admin", AdminUsername)
	return nil
}

func createMember(ctx context.Context, tx core.DBTX, u seedUser, hash string) error {
	dob, err := time.Parse(dateLayout, u.DateOfBirth)
	if err != nil {
		return fmt.Errorf("seed user %s: date of birth: %w", u.Username, err)
	}

	query := `
		INSERT INTO users (
			username, password_hash, gender, date_of_birth, known_as,
			created, last_active, introduction, looking_for, interests,
			city, country
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	if err := tx.GetContext(ctx, &id, query,
		u.Username, hash, u.Gender, dob, u.KnownAs,
		u.Created, u.LastActive, u.Introduction, u.LookingFor, u.Interests,
		u.City, u.Country,
	); err != nil {
		return fmt.Errorf("seed user %s: %w", u.Username, err)
	}

	if err := grant(ctx, tx, id, access.RoleMember); err != nil {
		return err
	}

	for i, p := range u.Photos {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photos (user_id, url, description, is_main, is_approved)
			VALUES ($1, $2, $3, $4, TRUE)`,
			id, p.URL, p.Description, i == 0,
		); err != nil {
			return fmt.Errorf("seed photo for %s: %w", u.Username, err)
		}
	}

	return nil
}

// createAdmin adds the staff account. It has no gender so it never shows
// up in member browsing.
func createAdmin(ctx context.Context, tx core.DBTX, hash string) error {
	var id int64
	if err := tx.GetContext(ctx, &id, `
		INSERT INTO users (username, password_hash, gender, date_of_birth, known_as)
		VALUES ($1, $2, '', $3, $4)
		RETURNING id`,
		AdminUsername, hash, time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC), "Admin",
	); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	for _, role := range []string{access.RoleAdmin, access.RoleModerator} {
		if err := grant(ctx, tx, id, role); err != nil {
			return err
		}
	}
	return nil
}

func grant(ctx context.Context, tx core.DBTX, userID int64, role string) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2`,
		userID, role)
	if err != nil {
		return fmt.Errorf("seed role grant %s: %w", role, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("seed role grant %s: %w", role, err)
	}
	if n == 0 {
		return fmt.Errorf("seed role grant %s: %w", role, core.ErrPersistence)
	}
	return nil
}
