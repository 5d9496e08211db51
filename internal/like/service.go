// AngelaMos | 2026
// service.go

package like

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
)

const msgAlreadyLiked = "You already like this user"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LikesOf is the relation index lookup used by member filtering.
func (s *Service) LikesOf(
	ctx context.Context,
	userID int64,
	dir Direction,
) ([]int64, error) {
	return s.repo.LikesOf(ctx, userID, dir)
}

// Like records that userID likes recipientID. Only the user themself may
// like on their own behalf.
func (s *Service) Like(
	ctx context.Context,
	caller access.Caller,
	userID, recipientID int64,
) error {
	if !caller.Owns(userID) {
		return fmt.Errorf("like: %w", core.ErrUnauthorized)
	}

	if userID == recipientID {
		return fmt.Errorf("like: cannot like yourself: %w", core.ErrInvalidInput)
	}

	_, err := s.repo.Get(ctx, userID, recipientID)
	switch {
	case err == nil:
		return core.Rejection(msgAlreadyLiked)
	case !errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("like: %w", err)
	}

	exists, err := s.repo.UserExists(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("like: %w", err)
	}
	if !exists {
		return fmt.Errorf("like: recipient: %w", core.ErrNotFound)
	}

	err = s.repo.Create(ctx, Like{LikerID: userID, LikeeID: recipientID})
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.Rejection(msgAlreadyLiked)
	}
	if err != nil {
		return fmt.Errorf("like: %w", err)
	}

	return nil
}
