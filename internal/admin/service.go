// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/paging"
	"github.com/carterperez-dev/dating-api/internal/photo"
)

// PhotoModerator is the moderation side of the photo service.
type PhotoModerator interface {
	Pending(ctx context.Context) ([]photo.PendingResponse, error)
	Approve(ctx context.Context, photoID int64) error
	Reject(ctx context.Context, photoID int64) error
}

type Service struct {
	repo   Repository
	photos PhotoModerator
}

func NewService(repo Repository, photos PhotoModerator) *Service {
	return &Service{repo: repo, photos: photos}
}

func authorize(caller access.Caller, op string, policy []string) error {
	if !caller.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}
	if !access.HasRole(caller, policy...) {
		return fmt.Errorf("%s: %w", op, core.ErrForbidden)
	}
	return nil
}

func (s *Service) UsersWithRoles(
	ctx context.Context,
	caller access.Caller,
	params paging.Params,
) (paging.Page[UserWithRoles], error) {
	if err := authorize(caller, "users with roles", access.RequireAdminRole); err != nil {
		return paging.Page[UserWithRoles]{}, err
	}

	users, err := s.repo.UsersWithRoles(ctx)
	if err != nil {
		return paging.Page[UserWithRoles]{}, err
	}

	return paging.Paginate(users, params.Page, params.PageSize), nil
}

// EditRoles makes the user's roles exactly roleNames and returns the
// result.
func (s *Service) EditRoles(
	ctx context.Context,
	caller access.Caller,
	username string,
	roleNames []string,
) (*RolesResponse, error) {
	if err := authorize(caller, "edit roles", access.RequireAdminRole); err != nil {
		return nil, err
	}

	for _, role := range roleNames {
		if !access.IsKnownRole(role) {
			return nil, fmt.Errorf("edit roles: unknown role %q: %w", role, core.ErrInvalidInput)
		}
	}

	username = strings.ToLower(strings.TrimSpace(username))

	var result []string
	err := s.repo.Transact(ctx, func(tx Repository) error {
		userID, err := tx.UserIDByUsername(ctx, username)
		if err != nil {
			return err
		}

		current, err := tx.RolesOf(ctx, userID)
		if err != nil {
			return err
		}

		for _, role := range roleNames {
			if !slices.Contains(current, role) {
				if err := tx.Grant(ctx, userID, role); err != nil {
					return err
				}
			}
		}

		for _, role := range current {
			if !slices.Contains(roleNames, role) {
				if err := tx.Revoke(ctx, userID, role); err != nil {
					return err
				}
			}
		}

		result, err = tx.RolesOf(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &RolesResponse{Username: username, Roles: result}, nil
}

func (s *Service) PhotosForModeration(
	ctx context.Context,
	caller access.Caller,
	params paging.Params,
) (paging.Page[photo.PendingResponse], error) {
	if err := authorize(caller, "photos for moderation", access.ModeratePhotoRole); err != nil {
		return paging.Page[photo.PendingResponse]{}, err
	}

	pending, err := s.photos.Pending(ctx)
	if err != nil {
		return paging.Page[photo.PendingResponse]{}, err
	}

	return paging.Paginate(pending, params.Page, params.PageSize), nil
}

func (s *Service) ApprovePhoto(ctx context.Context, caller access.Caller, photoID int64) error {
	if err := authorize(caller, "approve photo", access.ModeratePhotoRole); err != nil {
		return err
	}
	return s.photos.Approve(ctx, photoID)
}

func (s *Service) RejectPhoto(ctx context.Context, caller access.Caller, photoID int64) error {
	if err := authorize(caller, "reject photo", access.ModeratePhotoRole); err != nil {
		return err
	}
	return s.photos.Reject(ctx, photoID)
}

func (s *Service) Vip(caller access.Caller) (*VipResponse, error) {
	if err := authorize(caller, "vip", access.VipOnly); err != nil {
		return nil, err
	}
	return &VipResponse{Message: "Only VIPs can see this"}, nil
}

// CanViewStats gates the system stats endpoints.
func (s *Service) CanViewStats(caller access.Caller) error {
	return authorize(caller, "system stats", access.RequireAdminRole)
}
