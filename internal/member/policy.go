// AngelaMos | 2026
// policy.go

package member

import (
	"time"

	"github.com/carterperez-dev/dating-api/internal/query"
)

const (
	DefaultMinAge = 18
	DefaultMaxAge = 99
	MaxAgeCeiling = 150

	OrderCreated    = "created"
	OrderLastActive = "lastActive"
)

// Relations carries the relation index results a policy may restrict to.
// A nil slice means the direction was not requested.
type Relations struct {
	Likers []int64
	Likees []int64
}

// Policy turns listing params into ordered query steps: exclude self,
// relation membership, gender, date of birth window, then ordering.
// Gender only applies when neither relation direction was requested.
func Policy(callerID int64, p ListParams, rel Relations, today time.Time) []query.Step {
	steps := []query.Step{ExcludeSelf(callerID)}

	if p.Likers {
		steps = append(steps, Among(rel.Likers))
	}
	if p.Likees {
		steps = append(steps, Among(rel.Likees))
	}

	if !p.Likers && !p.Likees {
		steps = append(steps, GenderIs(p.Gender))
	}

	minDob, maxDob := DobWindow(p.MinAge, p.MaxAge, today)
	steps = append(steps, BornBetween(minDob, maxDob), OrderedBy(p.OrderBy))

	return steps
}

// DobWindow converts an age range to an inclusive date of birth range.
// The lower bound uses maxAge+1 so anyone who has not yet turned maxAge+1
// still matches.
func DobWindow(minAge, maxAge int, today time.Time) (time.Time, time.Time) {
	return today.AddDate(-(maxAge + 1), 0, 0), today.AddDate(-minAge, 0, 0)
}

func ExcludeSelf(id int64) query.Step {
	return func(b *query.Builder) {
		b.Where("u.id <> ?", id)
	}
}

func Among(ids []int64) query.Step {
	return func(b *query.Builder) {
		b.In("u.id", ids)
	}
}

func GenderIs(gender string) query.Step {
	return func(b *query.Builder) {
		b.Where("u.gender = ?", gender)
	}
}

func BornBetween(minDob, maxDob time.Time) query.Step {
	return func(b *query.Builder) {
		b.Where("u.date_of_birth BETWEEN ? AND ?", minDob, maxDob)
	}
}

// OrderedBy sorts newest first on the chosen key with id as tie-break.
func OrderedBy(key string) query.Step {
	return func(b *query.Builder) {
		if key == OrderCreated {
			b.OrderBy("u.created DESC", "u.id DESC")
			return
		}
		b.OrderBy("u.last_active DESC", "u.id DESC")
	}
}
