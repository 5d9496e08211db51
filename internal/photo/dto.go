// AngelaMos | 2026
// dto.go

package photo

import (
	"io"
	"time"
)

type AddRequest struct {
	Filename    string
	Description string `validate:"max=500"`
	File        io.Reader
}

type Response struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	DateAdded   time.Time `json:"date_added"`
	IsMain      bool      `json:"is_main"`
	IsApproved  bool      `json:"is_approved"`
}

type PendingResponse struct {
	Response
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func ToResponse(p *Photo) Response {
	return Response{
		ID:          p.ID,
		URL:         p.URL,
		Description: p.Description,
		DateAdded:   p.DateAdded,
		IsMain:      p.IsMain,
		IsApproved:  p.IsApproved,
	}
}

func ToPendingResponses(photos []PendingPhoto) []PendingResponse {
	out := make([]PendingResponse, 0, len(photos))
	for i := range photos {
		out = append(out, PendingResponse{
			Response: ToResponse(&photos[i].Photo),
			UserID:   photos[i].UserID,
			Username: photos[i].Username,
		})
	}
	return out
}
