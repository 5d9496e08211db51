// AngelaMos | 2026
// entity.go

package member

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Gender       string    `db:"gender"`
	DateOfBirth  time.Time `db:"date_of_birth"`
	KnownAs      string    `db:"known_as"`
	Created      time.Time `db:"created"`
	LastActive   time.Time `db:"last_active"`
	Introduction string    `db:"introduction"`
	LookingFor   string    `db:"looking_for"`
	Interests    string    `db:"interests"`
	City         string    `db:"city"`
	Country      string    `db:"country"`
}

// Row is a listing row: the user plus their approved main photo, if any.
type Row struct {
	User
	PhotoURL sql.NullString `db:"photo_url"`
}

type Photo struct {
	ID          int64     `db:"id"`
	URL         string    `db:"url"`
	Description string    `db:"description"`
	DateAdded   time.Time `db:"date_added"`
	IsMain      bool      `db:"is_main"`
	IsApproved  bool      `db:"is_approved"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// OppositeGender is the default gender filter for a caller.
func OppositeGender(g string) string {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// Age is the number of whole years between dob and today.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(today) {
		age--
	}
	return age
}

// Today is the current date at midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
