// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/member"
	"github.com/carterperez-dev/dating-api/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
)

const blacklistPrefix = "blacklist:"

// Profiles renders the member views returned by register, login and me.
type Profiles interface {
	Get(ctx context.Context, caller access.Caller, id int64) (*member.Detail, error)
	Summary(ctx context.Context, id int64) (*member.ListItem, error)
}

type Service struct {
	repo     Repository
	jwt      *JWTManager
	profiles Profiles
	redis    *redis.Client
}

// NewService wires the auth flows. redisClient may be nil, in which case
// logout cannot revoke tokens before they expire.
func NewService(
	repo Repository,
	jwt *JWTManager,
	profiles Profiles,
	redisClient *redis.Client,
) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwt,
		profiles: profiles,
		redis:    redisClient,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*member.Detail, error) {
	dob, err := req.BirthDate()
	if err != nil {
		return nil, fmt.Errorf("register: %w", core.ErrInvalidInput)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, NewAccount{
		Username:     normalizeUsername(req.Username),
		PasswordHash: passwordHash,
		Gender:       req.Gender,
		KnownAs:      req.KnownAs,
		DateOfBirth:  dob,
		City:         req.City,
		Country:      req.Country,
	}, access.RoleMember)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.profiles.Get(ctx, access.Caller{ID: id}, id)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	account, err := s.repo.GetByUsername(ctx, normalizeUsername(req.Username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention, always verify
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, "")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		account.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.repo.UpdatePasswordHash(ctx, account.ID, newHash)
	}

	roles, err := s.repo.RolesOf(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.CreateAccessToken(TokenClaims{
		UserID:   account.ID,
		Username: account.Username,
		Roles:    roles,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	user, err := s.profiles.Summary(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      *user,
	}, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}
	return s.RevokeAccessToken(ctx, claims.TokenID, claims.ExpiresAt)
}

func (s *Service) Me(ctx context.Context, caller access.Caller) (*MeResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, fmt.Errorf("me: %w", core.ErrUnauthorized)
	}

	detail, err := s.profiles.Get(ctx, caller, caller.ID)
	if err != nil {
		return nil, err
	}

	return &MeResponse{Detail: *detail, Roles: caller.Roles}, nil
}

// VerifyAccessToken implements middleware.TokenVerifier.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsAccessTokenBlacklisted(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	if s.redis == nil {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	if s.redis == nil {
		return false, nil
	}

	exists, err := s.redis.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
