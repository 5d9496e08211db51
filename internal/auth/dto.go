// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/dating-api/internal/member"
)

const dateLayout = "2006-01-02"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Username    string `json:"username"      validate:"required,min=2,max=64"`
	Password    string `json:"password"      validate:"required,min=4,max=8"`
	Gender      string `json:"gender"        validate:"required,oneof=male female"`
	KnownAs     string `json:"known_as"      validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	City        string `json:"city"          validate:"required,max=100"`
	Country     string `json:"country"       validate:"required,max=100"`
}

func (r RegisterRequest) BirthDate() (time.Time, error) {
	return time.Parse(dateLayout, r.DateOfBirth)
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      member.ListItem `json:"user"`
}

type MeResponse struct {
	member.Detail
	Roles []string `json:"roles"`
}
