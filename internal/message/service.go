// AngelaMos | 2026
// service.go

package message

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/paging"
	"github.com/carterperez-dev/dating-api/internal/query"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(
	ctx context.Context,
	caller access.Caller,
	userID int64,
	params ListParams,
) ([]Response, paging.Pagination, error) {
	if !caller.Owns(userID) {
		return nil, paging.Pagination{}, fmt.Errorf("list messages: %w", core.ErrUnauthorized)
	}

	params.Normalize()
	b := query.New(ContainerPolicy(userID, params.Container)...)

	rows, total, err := s.repo.List(ctx, b, params.PageSize, params.Offset())
	if err != nil {
		return nil, paging.Pagination{}, err
	}

	return ToResponses(rows), params.Result(total), nil
}

func (s *Service) Thread(
	ctx context.Context,
	caller access.Caller,
	userID, otherID int64,
) ([]Response, error) {
	if !caller.Owns(userID) {
		return nil, fmt.Errorf("message thread: %w", core.ErrUnauthorized)
	}

	rows, err := s.repo.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	return ToResponses(rows), nil
}

// Get returns a message to either participant.
func (s *Service) Get(
	ctx context.Context,
	caller access.Caller,
	userID, id int64,
) (*Response, error) {
	if !caller.Owns(userID) {
		return nil, fmt.Errorf("get message: %w", core.ErrUnauthorized)
	}

	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.SideOf(userID) == SideNone {
		return nil, fmt.Errorf("get message: %w", core.ErrUnauthorized)
	}

	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Create(
	ctx context.Context,
	caller access.Caller,
	userID int64,
	req CreateRequest,
) (*Response, error) {
	if !caller.Owns(userID) {
		return nil, fmt.Errorf("create message: %w", core.ErrUnauthorized)
	}

	exists, err := s.repo.UserExists(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("create message: recipient: %w", core.ErrNotFound)
	}

	m := &Message{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	row, err := s.repo.GetRow(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(row)
	return &resp, nil
}

// MarkRead is only open to the recipient.
func (s *Service) MarkRead(
	ctx context.Context,
	caller access.Caller,
	userID, id int64,
) error {
	if !caller.Owns(userID) {
		return fmt.Errorf("mark message read: %w", core.ErrUnauthorized)
	}

	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.RecipientID != userID {
		return fmt.Errorf("mark message read: %w", core.ErrUnauthorized)
	}

	return s.repo.MarkRead(ctx, id, s.now().UTC())
}

// Delete hides the message from userID's side. Once neither side can see
// it the row is removed.
func (s *Service) Delete(
	ctx context.Context,
	caller access.Caller,
	userID, id int64,
) error {
	if !caller.Owns(userID) {
		return fmt.Errorf("delete message: %w", core.ErrUnauthorized)
	}

	return s.repo.Transact(ctx, func(tx Repository) error {
		m, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		side := m.SideOf(userID)
		if side == SideNone {
			return fmt.Errorf("delete message: %w", core.ErrUnauthorized)
		}

		senderDeleted := m.SenderDeleted || side == SideSender || side == SideBoth
		recipientDeleted := m.RecipientDeleted || side == SideRecipient || side == SideBoth

		if senderDeleted && recipientDeleted {
			return tx.Purge(ctx, id)
		}

		return tx.SetDeleted(ctx, id, senderDeleted, recipientDeleted)
	})
}
