// AngelaMos | 2026
// dto.go

package message

import (
	"time"

	"github.com/carterperez-dev/dating-api/internal/paging"
)

type ListParams struct {
	paging.Params
	Container string `json:"container"`
}

type CreateRequest struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	Content     string `json:"content"      validate:"required,max=4000"`
}

type Response struct {
	ID                int64      `json:"id"`
	SenderID          int64      `json:"sender_id"`
	SenderKnownAs     string     `json:"sender_known_as"`
	SenderPhotoURL    string     `json:"sender_photo_url,omitempty"`
	RecipientID       int64      `json:"recipient_id"`
	RecipientKnownAs  string     `json:"recipient_known_as"`
	RecipientPhotoURL string     `json:"recipient_photo_url,omitempty"`
	Content           string     `json:"content"`
	IsRead            bool       `json:"is_read"`
	DateRead          *time.Time `json:"date_read,omitempty"`
	MessageSent       time.Time  `json:"message_sent"`
}

func ToResponse(r *Row) Response {
	resp := Response{
		ID:                r.ID,
		SenderID:          r.SenderID,
		SenderKnownAs:     r.SenderKnownAs,
		SenderPhotoURL:    r.SenderPhotoURL.String,
		RecipientID:       r.RecipientID,
		RecipientKnownAs:  r.RecipientKnownAs,
		RecipientPhotoURL: r.RecipientPhotoURL.String,
		Content:           r.Content,
		IsRead:            r.IsRead,
		MessageSent:       r.MessageSent,
	}
	if r.DateRead.Valid {
		read := r.DateRead.Time
		resp.DateRead = &read
	}
	return resp
}

func ToResponses(rows []Row) []Response {
	out := make([]Response, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out
}
