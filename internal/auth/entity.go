// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Account is the credential view of a user row.
type Account struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

type NewAccount struct {
	Username     string
	PasswordHash string
	Gender       string
	KnownAs      string
	DateOfBirth  time.Time
	City         string
	Country      string
}
