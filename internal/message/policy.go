// AngelaMos | 2026
// policy.go

package message

import (
	"github.com/carterperez-dev/dating-api/internal/query"
)

const (
	ContainerInbox  = "Inbox"
	ContainerOutbox = "Outbox"
	ContainerUnread = "Unread"
)

// ContainerPolicy selects one mailbox view for userID. Any container name
// other than Inbox or Outbox means unread.
func ContainerPolicy(userID int64, container string) []query.Step {
	var view query.Step
	switch container {
	case ContainerInbox:
		view = Inbox(userID)
	case ContainerOutbox:
		view = Outbox(userID)
	default:
		view = Unread(userID)
	}
	return []query.Step{view, NewestFirst()}
}

func Inbox(userID int64) query.Step {
	return func(b *query.Builder) {
		b.Where("m.recipient_id = ?", userID).
			Where("NOT m.recipient_deleted")
	}
}

func Outbox(userID int64) query.Step {
	return func(b *query.Builder) {
		b.Where("m.sender_id = ?", userID).
			Where("NOT m.sender_deleted")
	}
}

func Unread(userID int64) query.Step {
	return func(b *query.Builder) {
		b.Where("m.recipient_id = ?", userID).
			Where("NOT m.is_read").
			Where("NOT m.recipient_deleted")
	}
}

func NewestFirst() query.Step {
	return func(b *query.Builder) {
		b.OrderBy("m.message_sent DESC", "m.id DESC")
	}
}
