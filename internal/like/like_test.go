// AngelaMos | 2026
// like_test.go

package like

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
)

type memRepo struct {
	edges map[Like]bool
	users map[int64]bool
}

func newMemRepo(users ...int64) *memRepo {
	m := &memRepo{edges: map[Like]bool{}, users: map[int64]bool{}}
	for _, id := range users {
		m.users[id] = true
	}
	return m
}

func (m *memRepo) LikesOf(_ context.Context, userID int64, dir Direction) ([]int64, error) {
	ids := []int64{}
	for e := range m.edges {
		if dir == Likers && e.LikeeID == userID {
			ids = append(ids, e.LikerID)
		}
		if dir == Likees && e.LikerID == userID {
			ids = append(ids, e.LikeeID)
		}
	}
	return ids, nil
}

func (m *memRepo) Get(_ context.Context, likerID, likeeID int64) (*Like, error) {
	l := Like{LikerID: likerID, LikeeID: likeeID}
	if !m.edges[l] {
		return nil, core.ErrNotFound
	}
	return &l, nil
}

func (m *memRepo) Create(_ context.Context, l Like) error {
	m.edges[l] = true
	return nil
}

func (m *memRepo) UserExists(_ context.Context, id int64) (bool, error) {
	return m.users[id], nil
}

func TestLikesOfBothDirections(t *testing.T) {
	repo := newMemRepo(1, 2, 3)
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, access.Caller{ID: 1}, 1, 2))
	require.NoError(t, svc.Like(ctx, access.Caller{ID: 1}, 1, 3))
	require.NoError(t, svc.Like(ctx, access.Caller{ID: 2}, 2, 3))

	likers, err := svc.LikesOf(ctx, 3, Likers)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, likers)

	likees, err := svc.LikesOf(ctx, 1, Likees)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, likees)
}

func TestLikeRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("acting for someone else", func(t *testing.T) {
		err := NewService(newMemRepo(1, 2)).Like(ctx, access.Caller{ID: 2}, 1, 2)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("self like", func(t *testing.T) {
		err := NewService(newMemRepo(1)).Like(ctx, access.Caller{ID: 1}, 1, 1)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := NewService(newMemRepo(1, 2))
		require.NoError(t, svc.Like(ctx, access.Caller{ID: 1}, 1, 2))

		err := svc.Like(ctx, access.Caller{ID: 1}, 1, 2)
		require.ErrorIs(t, err, core.ErrInvalidOperation)
		assert.Equal(t, "You already like this user", core.FromError(err, "user").Message)
	})

	t.Run("missing recipient", func(t *testing.T) {
		err := NewService(newMemRepo(1)).Like(ctx, access.Caller{ID: 1}, 1, 42)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestRepositoryLikesOfProjectsDirection(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT liker_id FROM likes WHERE likee_id = $1 ORDER BY liker_id`,
	)).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"liker_id"}).AddRow(1).AddRow(2))

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT likee_id FROM likes WHERE liker_id = $1 ORDER BY likee_id`,
	)).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"likee_id"}))

	likers, err := repo.LikesOf(context.Background(), 3, Likers)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, likers)

	likees, err := repo.LikesOf(context.Background(), 1, Likees)
	require.NoError(t, err)
	assert.Empty(t, likees)
	assert.NotNil(t, likees)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes`)).
		WithArgs(int64(1), int64(2)).
		WillReturnError(fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}))

	err := repo.Create(context.Background(), Like{LikerID: 1, LikeeID: 2})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestHandlerLike(t *testing.T) {
	h := NewHandler(NewService(newMemRepo(1, 2)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := access.WithCaller(req.Context(), access.Caller{ID: 1})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/1/like/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/1/like/2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You already like this user")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users/2/like/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
