// AngelaMos | 2026
// service.go

package photo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/media"
)

const (
	msgAlreadyMain = "This is already the main photo"
	msgDeleteMain  = "Can't remove main photo"
	msgRejectMain  = "Unable to reject main photo"
)

type Service struct {
	repo  Repository
	media media.Store
}

func NewService(repo Repository, store media.Store) *Service {
	return &Service{repo: repo, media: store}
}

// Add uploads the file first and only then records it. The new photo is
// main exactly when the user had no main photo.
func (s *Service) Add(
	ctx context.Context,
	caller access.Caller,
	userID int64,
	req AddRequest,
) (*Response, error) {
	if !caller.Owns(userID) {
		return nil, fmt.Errorf("add photo: %w", core.ErrUnauthorized)
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("add photo: %w", core.ErrNotFound)
	}

	asset, err := s.media.Upload(ctx, req.Filename, req.File)
	if err != nil {
		return nil, fmt.Errorf("add photo: %w: %w", core.ErrUpstream, err)
	}

	p := &Photo{
		UserID:      userID,
		URL:         asset.URL,
		Description: req.Description,
		PublicID:    sql.NullString{String: asset.PublicID, Valid: asset.PublicID != ""},
	}

	err = s.repo.Transact(ctx, userID, func(tx Repository) error {
		_, mainErr := tx.MainFor(ctx, userID)
		switch {
		case errors.Is(mainErr, core.ErrNotFound):
			p.IsMain = true
		case mainErr != nil:
			return mainErr
		}

		return tx.Create(ctx, p)
	})
	if err != nil {
		s.discard(ctx, asset.PublicID)
		return nil, err
	}

	resp := ToResponse(p)
	return &resp, nil
}

// discard removes an uploaded asset whose row could not be written.
func (s *Service) discard(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if _, err := s.media.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		slog.Warn("discard orphaned upload failed",
			"public_id", publicID,
			"error", err,
		)
	}
}

func (s *Service) SetMain(
	ctx context.Context,
	caller access.Caller,
	userID, photoID int64,
) error {
	if !caller.Owns(userID) {
		return fmt.Errorf("set main photo: %w", core.ErrUnauthorized)
	}

	return s.repo.Transact(ctx, userID, func(tx Repository) error {
		p, err := tx.Get(ctx, photoID)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return fmt.Errorf("set main photo: %w", core.ErrUnauthorized)
		}
		if p.IsMain {
			return core.Rejection(msgAlreadyMain)
		}

		current, err := tx.MainFor(ctx, userID)
		switch {
		case err == nil:
			if err := tx.SetMain(ctx, current.ID, false); err != nil {
				return err
			}
		case !errors.Is(err, core.ErrNotFound):
			return err
		}

		return tx.SetMain(ctx, p.ID, true)
	})
}

func (s *Service) Delete(
	ctx context.Context,
	caller access.Caller,
	userID, photoID int64,
) error {
	if !caller.Owns(userID) {
		return fmt.Errorf("delete photo: %w", core.ErrUnauthorized)
	}

	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return fmt.Errorf("delete photo: %w", core.ErrUnauthorized)
	}
	if p.IsMain {
		return core.Rejection(msgDeleteMain)
	}

	return s.remove(ctx, p, msgDeleteMain)
}

// remove deletes the remote asset, when there is one, and then the row.
// A remote result other than ok keeps the row. The remote call runs before
// the user lock is taken; the main flag is checked again under the lock.
func (s *Service) remove(ctx context.Context, p *Photo, mainMsg string) error {
	if p.PublicID.Valid && p.PublicID.String != "" {
		result, err := s.media.Delete(ctx, p.PublicID.String)
		if err != nil {
			return fmt.Errorf("delete photo: %w: %w", core.ErrUpstream, err)
		}
		if result != media.ResultOK {
			return fmt.Errorf("delete photo: media store answered %q: %w",
				result, core.ErrUpstream)
		}
	}

	return s.repo.Transact(ctx, p.UserID, func(tx Repository) error {
		locked, err := tx.Get(ctx, p.ID)
		if err != nil {
			return err
		}
		if locked.IsMain {
			return core.Rejection(mainMsg)
		}

		rows, err := tx.Delete(ctx, p.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("delete photo: %w", core.ErrPersistence)
		}

		return nil
	})
}

func (s *Service) Get(
	ctx context.Context,
	caller access.Caller,
	photoID int64,
) (*Response, error) {
	if !caller.IsAuthenticated() {
		return nil, fmt.Errorf("get photo: %w", core.ErrUnauthorized)
	}

	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(p)
	return &resp, nil
}

// Pending lists unapproved photos, oldest first.
func (s *Service) Pending(ctx context.Context) ([]PendingResponse, error) {
	photos, err := s.repo.Pending(ctx)
	if err != nil {
		return nil, err
	}
	return ToPendingResponses(photos), nil
}

func (s *Service) Approve(ctx context.Context, photoID int64) error {
	if _, err := s.repo.Get(ctx, photoID); err != nil {
		return err
	}
	return s.repo.Approve(ctx, photoID)
}

func (s *Service) Reject(ctx context.Context, photoID int64) error {
	p, err := s.repo.Get(ctx, photoID)
	if err != nil {
		return err
	}
	if p.IsMain {
		return core.Rejection(msgRejectMain)
	}

	return s.remove(ctx, p, msgRejectMain)
}
