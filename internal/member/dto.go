// AngelaMos | 2026
// dto.go

package member

import (
	"time"

	"github.com/carterperez-dev/dating-api/internal/paging"
)

type ListParams struct {
	paging.Params
	Gender  string `json:"gender"`
	MinAge  int    `json:"min_age"`
	MaxAge  int    `json:"max_age"`
	Likers  bool   `json:"likers"`
	Likees  bool   `json:"likees"`
	OrderBy string `json:"order_by"`
}

// Normalize clamps paging and ages and fills age defaults. Gender is left
// for the service, which knows the caller.
func (p *ListParams) Normalize() {
	p.Params.Normalize()
	if p.MinAge <= 0 {
		p.MinAge = DefaultMinAge
	}
	if p.MaxAge <= 0 {
		p.MaxAge = DefaultMaxAge
	}
	p.MinAge = min(p.MinAge, MaxAgeCeiling)
	p.MaxAge = min(p.MaxAge, MaxAgeCeiling)
	if p.MinAge > p.MaxAge {
		p.MinAge, p.MaxAge = p.MaxAge, p.MinAge
	}
}

type UpdateRequest struct {
	Introduction *string `json:"introduction,omitempty" validate:"omitempty,max=2000"`
	LookingFor   *string `json:"looking_for,omitempty"  validate:"omitempty,max=2000"`
	Interests    *string `json:"interests,omitempty"    validate:"omitempty,max=2000"`
	City         *string `json:"city,omitempty"         validate:"omitempty,max=100"`
	Country      *string `json:"country,omitempty"      validate:"omitempty,max=100"`
}

type ListItem struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"known_as"`
	Gender     string    `json:"gender"`
	Age        int       `json:"age"`
	Created    time.Time `json:"created"`
	LastActive time.Time `json:"last_active"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	PhotoURL   string    `json:"photo_url,omitempty"`
}

type PhotoResponse struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	DateAdded   time.Time `json:"date_added"`
	IsMain      bool      `json:"is_main"`
	IsApproved  bool      `json:"is_approved"`
}

type Detail struct {
	ListItem
	Introduction string          `json:"introduction"`
	LookingFor   string          `json:"looking_for"`
	Interests    string          `json:"interests"`
	Photos       []PhotoResponse `json:"photos"`
}

func ToListItem(u *User, photoURL string, today time.Time) ListItem {
	return ListItem{
		ID:         u.ID,
		Username:   u.Username,
		KnownAs:    u.KnownAs,
		Gender:     u.Gender,
		Age:        Age(u.DateOfBirth, today),
		Created:    u.Created,
		LastActive: u.LastActive,
		City:       u.City,
		Country:    u.Country,
		PhotoURL:   photoURL,
	}
}

func ToListItems(rows []Row, today time.Time) []ListItem {
	items := make([]ListItem, 0, len(rows))
	for i := range rows {
		items = append(items, ToListItem(&rows[i].User, rows[i].PhotoURL.String, today))
	}
	return items
}

func ToDetail(u *User, photos []Photo, today time.Time) Detail {
	var mainURL string
	resp := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		if p.IsMain && p.IsApproved {
			mainURL = p.URL
		}
		resp = append(resp, PhotoResponse{
			ID:          p.ID,
			URL:         p.URL,
			Description: p.Description,
			DateAdded:   p.DateAdded,
			IsMain:      p.IsMain,
			IsApproved:  p.IsApproved,
		})
	}

	return Detail{
		ListItem:     ToListItem(u, mainURL, today),
		Introduction: u.Introduction,
		LookingFor:   u.LookingFor,
		Interests:    u.Interests,
		Photos:       resp,
	}
}
