// AngelaMos | 2026
// service.go

package member

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/like"
	"github.com/carterperez-dev/dating-api/internal/paging"
	"github.com/carterperez-dev/dating-api/internal/query"
)

type RelationIndex interface {
	LikesOf(ctx context.Context, userID int64, dir like.Direction) ([]int64, error)
}

type Service struct {
	repo  Repository
	likes RelationIndex
	now   func() time.Time
}

func NewService(repo Repository, likes RelationIndex) *Service {
	return &Service{repo: repo, likes: likes, now: time.Now}
}

// List returns one page of other members matching params, along with the
// pagination metadata for the full filtered set.
func (s *Service) List(
	ctx context.Context,
	caller access.Caller,
	params ListParams,
) ([]ListItem, paging.Pagination, error) {
	if !caller.IsAuthenticated() {
		return nil, paging.Pagination{}, fmt.Errorf("list users: %w", core.ErrUnauthorized)
	}

	params.Normalize()

	if params.Gender == "" {
		self, err := s.repo.GetByID(ctx, caller.ID)
		if err != nil {
			return nil, paging.Pagination{}, fmt.Errorf("list users: %w", err)
		}
		params.Gender = OppositeGender(self.Gender)
	}

	rel, err := s.relations(ctx, caller.ID, params)
	if err != nil {
		return nil, paging.Pagination{}, fmt.Errorf("list users: %w", err)
	}

	today := Today(s.now())
	b := query.New(Policy(caller.ID, params, rel, today)...)

	rows, total, err := s.repo.List(ctx, b, params.PageSize, params.Offset())
	if err != nil {
		return nil, paging.Pagination{}, err
	}

	return ToListItems(rows, today), params.Result(total), nil
}

func (s *Service) relations(
	ctx context.Context,
	userID int64,
	params ListParams,
) (Relations, error) {
	var rel Relations
	var err error

	if params.Likers {
		if rel.Likers, err = s.likes.LikesOf(ctx, userID, like.Likers); err != nil {
			return rel, err
		}
	}
	if params.Likees {
		if rel.Likees, err = s.likes.LikesOf(ctx, userID, like.Likees); err != nil {
			return rel, err
		}
	}

	return rel, nil
}

// Get returns a member with their photos. Unapproved photos are only
// visible to their owner.
func (s *Service) Get(
	ctx context.Context,
	caller access.Caller,
	id int64,
) (*Detail, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := s.repo.Photos(ctx, id, caller.Owns(id))
	if err != nil {
		return nil, err
	}

	detail := ToDetail(user, photos, Today(s.now()))
	return &detail, nil
}

// Summary is the listing view of one member, as returned after login.
func (s *Service) Summary(ctx context.Context, id int64) (*ListItem, error) {
	detail, err := s.Get(ctx, access.Caller{}, id)
	if err != nil {
		return nil, err
	}
	return &detail.ListItem, nil
}

func (s *Service) Update(
	ctx context.Context,
	caller access.Caller,
	id int64,
	req UpdateRequest,
) (*Detail, error) {
	if !caller.Owns(id) {
		return nil, fmt.Errorf("update user: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Introduction != nil {
		user.Introduction = *req.Introduction
	}
	if req.LookingFor != nil {
		user.LookingFor = *req.LookingFor
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Country != nil {
		user.Country = *req.Country
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.Get(ctx, caller, id)
}

func (s *Service) TouchLastActive(ctx context.Context, id int64) error {
	return s.repo.TouchLastActive(ctx, id)
}
