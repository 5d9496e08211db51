// AngelaMos | 2026
// entity.go

package message

import (
	"database/sql"
	"time"
)

type Message struct {
	ID               int64        `db:"id"`
	SenderID         int64        `db:"sender_id"`
	RecipientID      int64        `db:"recipient_id"`
	Content          string       `db:"content"`
	IsRead           bool         `db:"is_read"`
	DateRead         sql.NullTime `db:"date_read"`
	MessageSent      time.Time    `db:"message_sent"`
	SenderDeleted    bool         `db:"sender_deleted"`
	RecipientDeleted bool         `db:"recipient_deleted"`
}

// Row is a message joined with both participants' display data.
type Row struct {
	Message
	SenderKnownAs     string         `db:"sender_known_as"`
	SenderPhotoURL    sql.NullString `db:"sender_photo_url"`
	RecipientKnownAs  string         `db:"recipient_known_as"`
	RecipientPhotoURL sql.NullString `db:"recipient_photo_url"`
}

// Side is which participant a user is in a message.
type Side int

const (
	SideNone Side = iota
	SideSender
	SideRecipient
	SideBoth
)

func (m *Message) SideOf(userID int64) Side {
	switch {
	case m.SenderID == userID && m.RecipientID == userID:
		return SideBoth
	case m.SenderID == userID:
		return SideSender
	case m.RecipientID == userID:
		return SideRecipient
	default:
		return SideNone
	}
}
