// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/config"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/member"
	"github.com/carterperez-dev/dating-api/internal/middleware"
)

func newTestJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:    filepath.Join(dir, "private.pem"),
		PublicKeyPath:     filepath.Join(dir, "public.pem"),
		AccessTokenExpire: time.Hour,
		Issuer:            "dating-api",
		Audience:          "dating-spa",
	}
	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))
	return cfg
}

func newTestManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, newTestJWTConfig(t))

	signed, err := m.CreateAccessToken(TokenClaims{
		UserID:   12,
		Username: "admin",
		Roles:    []string{access.RoleAdmin, access.RoleModerator},
	})
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(signed.Token)
	require.NoError(t, err)

	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, []string{access.RoleAdmin, access.RoleModerator}, claims.Roles)
	assert.Equal(t, signed.TokenID, claims.TokenID)
	assert.WithinDuration(t, signed.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseAccessTokenRejects(t *testing.T) {
	cfg := newTestJWTConfig(t)
	m := newTestManager(t, cfg)

	signed, err := m.CreateAccessToken(TokenClaims{UserID: 1, Username: "a"})
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(signed.Token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "AA"

		_, err := m.ParseAccessToken(strings.Join(parts, "."))
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("other audience", func(t *testing.T) {
		other := cfg
		other.Audience = "someone-else"

		_, err := newTestManager(t, other).ParseAccessToken(signed.Token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		expiredCfg := cfg
		expiredCfg.AccessTokenExpire = -time.Minute
		expired := newTestManager(t, expiredCfg)

		token, err := expired.CreateAccessToken(TokenClaims{UserID: 1, Username: "a"})
		require.NoError(t, err)

		_, err = expired.ParseAccessToken(token.Token)
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})
}

func TestJWKSHandler(t *testing.T) {
	m := newTestManager(t, newTestJWTConfig(t))

	rec := httptest.NewRecorder()
	m.GetJWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), m.GetKeyID())
	assert.NotContains(t, rec.Body.String(), `"d"`)
}

type fakeRepo struct {
	accounts map[string]*Account
	roles    map[int64][]string
	nextID   int64
	created  []NewAccount
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts: map[string]*Account{},
		roles:    map[int64][]string{},
		nextID:   1,
	}
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*Account, error) {
	a, ok := f.accounts[username]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) RolesOf(_ context.Context, userID int64) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakeRepo) Create(_ context.Context, a NewAccount, role string) (int64, error) {
	if _, ok := f.accounts[a.Username]; ok {
		return 0, core.ErrDuplicateKey
	}
	id := f.nextID
	f.nextID++
	f.accounts[a.Username] = &Account{ID: id, Username: a.Username, PasswordHash: a.PasswordHash}
	f.roles[id] = []string{role}
	f.created = append(f.created, a)
	return id, nil
}

func (f *fakeRepo) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	for _, a := range f.accounts {
		if a.ID == userID {
			a.PasswordHash = hash
		}
	}
	return nil
}

type fakeProfiles struct{}

func (fakeProfiles) Get(_ context.Context, _ access.Caller, id int64) (*member.Detail, error) {
	return &member.Detail{ListItem: member.ListItem{ID: id}}, nil
}

func (fakeProfiles) Summary(_ context.Context, id int64) (*member.ListItem, error) {
	return &member.ListItem{ID: id}, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newFakeRepo()
	svc := NewService(repo, newTestManager(t, newTestJWTConfig(t)), fakeProfiles{}, client)
	return svc, repo
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:    "  Lisa ",
		Password:    "password",
		Gender:      member.GenderFemale,
		KnownAs:     "Lisa",
		DateOfBirth: "1995-04-02",
		City:        "Porto",
		Country:     "Portugal",
	}
}

func TestRegisterGrantsMember(t *testing.T) {
	svc, repo := newTestService(t)

	detail, err := svc.Register(t.Context(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, int64(1), detail.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "lisa", repo.created[0].Username)
	assert.Equal(t, time.Date(1995, 4, 2, 0, 0, 0, 0, time.UTC), repo.created[0].DateOfBirth)
	assert.NotEqual(t, "password", repo.created[0].PasswordHash)
	assert.Equal(t, []string{access.RoleMember}, repo.roles[1])

	_, err = svc.Register(t.Context(), validRegistration())
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(t.Context(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(t.Context(), LoginRequest{Username: "LISA", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)

	claims, err := svc.VerifyAccessToken(t.Context(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "lisa", claims.Username)
	assert.Equal(t, []string{access.RoleMember}, claims.Roles)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(t.Context(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(t.Context(), LoginRequest{Username: "lisa", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(t.Context(), LoginRequest{Username: "nobody", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(t.Context(), validRegistration())
	require.NoError(t, err)

	resp, err := svc.Login(t.Context(), LoginRequest{Username: "lisa", Password: "password"})
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(t.Context(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(t.Context(), claims))

	_, err = svc.VerifyAccessToken(t.Context(), resp.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestHandlerFlow(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc)

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(svc))

	body := `{"username":"bob","password":"password","gender":"male","known_as":"Bob",
		"date_of_birth":"1990-01-01","city":"Oslo","country":"Norway"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"bob","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp, err := svc.Login(t.Context(), LoginRequest{Username: "bob", Password: "password"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), access.RoleMember)
}

func TestRepositoryCreateGrantsRoleInTx(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewRepository(sqlx.NewDb(raw, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(5), access.RoleMember).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), NewAccount{Username: "x"}, access.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateRollsBackWithoutRole(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewRepository(sqlx.NewDb(raw, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO user_roles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repo.Create(context.Background(), NewAccount{Username: "x"}, "Ghost")
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
