// AngelaMos | 2026
// member_test.go

package member

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/like"
	"github.com/carterperez-dev/dating-api/internal/paging"
	"github.com/carterperez-dev/dating-api/internal/query"
)

var today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func defaultParams() ListParams {
	p := ListParams{Gender: GenderFemale}
	p.Normalize()
	return p
}

func TestPolicyDefaultOrderOfSteps(t *testing.T) {
	b := query.New(Policy(7, defaultParams(), Relations{}, today)...)

	assert.Equal(t, []string{
		"u.id <> $1",
		"u.gender = $2",
		"u.date_of_birth BETWEEN $3 AND $4",
	}, b.Conditions())
	assert.Equal(t, "ORDER BY u.last_active DESC, u.id DESC", b.OrderClause())

	args := b.Args()
	assert.Equal(t, int64(7), args[0])
	assert.Equal(t, GenderFemale, args[1])
	assert.Equal(t, time.Date(1926, time.March, 10, 0, 0, 0, 0, time.UTC), args[2])
	assert.Equal(t, time.Date(2008, time.March, 10, 0, 0, 0, 0, time.UTC), args[3])
}

func TestPolicyRelationSkipsGender(t *testing.T) {
	tests := []struct {
		name   string
		likers bool
		likees bool
		rel    Relations
		want   []string
	}{
		{
			name:   "likers",
			likers: true,
			rel:    Relations{Likers: []int64{2, 3}},
			want: []string{
				"u.id <> $1",
				"u.id IN ($2, $3)",
				"u.date_of_birth BETWEEN $4 AND $5",
			},
		},
		{
			name:   "likees",
			likees: true,
			rel:    Relations{Likees: []int64{4}},
			want: []string{
				"u.id <> $1",
				"u.id IN ($2)",
				"u.date_of_birth BETWEEN $3 AND $4",
			},
		},
		{
			name:   "likers with none",
			likers: true,
			want: []string{
				"u.id <> $1",
				"FALSE",
				"u.date_of_birth BETWEEN $2 AND $3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			p.Likers, p.Likees = tt.likers, tt.likees

			b := query.New(Policy(1, p, tt.rel, today)...)
			assert.Equal(t, tt.want, b.Conditions())
		})
	}
}

func TestPolicyOrderCreated(t *testing.T) {
	p := defaultParams()
	p.OrderBy = OrderCreated

	b := query.New(Policy(1, p, Relations{}, today)...)
	assert.Equal(t, "ORDER BY u.created DESC, u.id DESC", b.OrderClause())
}

func TestDobWindowBoundaries(t *testing.T) {
	minDob, maxDob := DobWindow(DefaultMinAge, DefaultMaxAge, today)
	within := func(dob time.Time) bool {
		return !dob.Before(minDob) && !dob.After(maxDob)
	}

	assert.True(t, within(today.AddDate(-25, 0, 0)))
	assert.False(t, within(today.AddDate(-17, 0, 0)))

	assert.True(t, within(today.AddDate(-18, 0, 0)), "turning 18 today")
	assert.False(t, within(today.AddDate(-18, 0, 1)), "18 tomorrow")
	assert.True(t, within(today.AddDate(-100, 0, 0)), "turning 100 today is inclusive")
	assert.False(t, within(today.AddDate(-100, 0, -1)))
}

func TestAge(t *testing.T) {
	assert.Equal(t, 25, Age(today.AddDate(-25, 0, 0), today))
	assert.Equal(t, 24, Age(today.AddDate(-25, 0, 1), today))
	assert.Equal(t, 0, Age(today, today))
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Params: paging.Params{Page: 0, PageSize: 500}, MinAge: 40, MaxAge: 30}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, paging.MaxPageSize, p.PageSize)
	assert.Equal(t, 30, p.MinAge)
	assert.Equal(t, 40, p.MaxAge)
}

func TestListParamsNormalizeCapsAges(t *testing.T) {
	tests := []struct {
		name             string
		minAge, maxAge   int
		wantMin, wantMax int
	}{
		{"huge max", 18, math.MaxInt, 18, MaxAgeCeiling},
		{"year out of range", 18, 10000, 18, MaxAgeCeiling},
		{"both huge", math.MaxInt, math.MaxInt, MaxAgeCeiling, MaxAgeCeiling},
		{"huge min swaps", math.MaxInt, 30, 30, MaxAgeCeiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ListParams{MinAge: tt.minAge, MaxAge: tt.maxAge}
			p.Normalize()

			assert.Equal(t, tt.wantMin, p.MinAge)
			assert.Equal(t, tt.wantMax, p.MaxAge)

			minDob, maxDob := DobWindow(p.MinAge, p.MaxAge, today)
			assert.True(t, minDob.Before(maxDob))
			assert.Equal(t, today.Year()-MaxAgeCeiling-1, minDob.Year())
		})
	}
}

func TestServiceListHugePageKeepsOffsetPositive(t *testing.T) {
	repo := &fakeRepo{users: map[int64]*User{}}
	svc := newTestService(repo, nil)

	_, meta, err := svc.List(context.Background(), access.Caller{ID: 1},
		ListParams{Params: paging.Params{Page: math.MaxInt, PageSize: 10}, Gender: GenderMale})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, repo.offset, 0)
	assert.Equal(t, math.MaxInt/10, meta.CurrentPage)
}

type fakeRepo struct {
	users    map[int64]*User
	photos   map[int64][]Photo
	builder  *query.Builder
	limit    int
	offset   int
	total    int
	rows     []Row
	updated  *User
	touched  []int64
	unapprov bool
}

func (f *fakeRepo) List(_ context.Context, b *query.Builder, limit, offset int) ([]Row, int, error) {
	f.builder, f.limit, f.offset = b, limit, offset
	return f.rows, f.total, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) Photos(_ context.Context, userID int64, includeUnapproved bool) ([]Photo, error) {
	f.unapprov = includeUnapproved
	var out []Photo
	for _, p := range f.photos[userID] {
		if p.IsApproved || includeUnapproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.updated = u
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) TouchLastActive(_ context.Context, id int64) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeLikes map[like.Direction][]int64

func (f fakeLikes) LikesOf(_ context.Context, _ int64, dir like.Direction) ([]int64, error) {
	return f[dir], nil
}

func newTestService(repo *fakeRepo, likes fakeLikes) *Service {
	svc := NewService(repo, likes)
	svc.now = func() time.Time { return today.Add(15 * time.Hour) }
	return svc
}

func TestServiceListDefaultsGenderToOpposite(t *testing.T) {
	repo := &fakeRepo{
		users: map[int64]*User{1: {ID: 1, Gender: GenderMale}},
		rows:  []Row{{User: User{ID: 2, DateOfBirth: today.AddDate(-30, 0, 0)}}},
		total: 11,
	}
	svc := newTestService(repo, nil)

	items, meta, err := svc.List(context.Background(), access.Caller{ID: 1},
		ListParams{Params: paging.Params{Page: 2, PageSize: 5}})
	require.NoError(t, err)

	assert.Equal(t, GenderFemale, repo.builder.Args()[1])
	assert.Equal(t, 5, repo.limit)
	assert.Equal(t, 5, repo.offset)
	require.Len(t, items, 1)
	assert.Equal(t, 30, items[0].Age)
	assert.Equal(t, paging.Pagination{CurrentPage: 2, ItemsPerPage: 5, TotalItems: 11, TotalPages: 3}, meta)
}

func TestServiceListRestrictsToLikers(t *testing.T) {
	repo := &fakeRepo{users: map[int64]*User{}}
	svc := newTestService(repo, fakeLikes{like.Likers: {5, 6}})

	_, _, err := svc.List(context.Background(), access.Caller{ID: 1},
		ListParams{Gender: GenderMale, Likers: true})
	require.NoError(t, err)

	assert.Contains(t, repo.builder.Conditions(), "u.id IN ($2, $3)")
	assert.NotContains(t, repo.builder.WhereClause(), "gender")
}

func TestServiceGetHidesUnapprovedFromOthers(t *testing.T) {
	repo := &fakeRepo{
		users: map[int64]*User{3: {ID: 3, DateOfBirth: today.AddDate(-20, 0, 0)}},
		photos: map[int64][]Photo{3: {
			{ID: 1, URL: "a", IsMain: true, IsApproved: true},
			{ID: 2, URL: "b"},
		}},
	}
	svc := newTestService(repo, nil)

	other, err := svc.Get(context.Background(), access.Caller{ID: 9}, 3)
	require.NoError(t, err)
	assert.Len(t, other.Photos, 1)
	assert.Equal(t, "a", other.PhotoURL)

	owner, err := svc.Get(context.Background(), access.Caller{ID: 3}, 3)
	require.NoError(t, err)
	assert.Len(t, owner.Photos, 2)
}

func TestServiceUpdateOwnerOnly(t *testing.T) {
	repo := &fakeRepo{users: map[int64]*User{3: {ID: 3}}}
	svc := newTestService(repo, nil)
	city := "Lisbon"

	_, err := svc.Update(context.Background(), access.Caller{ID: 4}, 3, UpdateRequest{City: &city})
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.Nil(t, repo.updated)

	detail, err := svc.Update(context.Background(), access.Caller{ID: 3}, 3, UpdateRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", detail.City)
}

func TestRepositoryListCountsThenPages(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewRepository(sqlx.NewDb(raw, "sqlmock"))

	b := query.New(ExcludeSelf(1), GenderIs(GenderFemale), OrderedBy(""))

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM users u WHERE u.id <> $1 AND u.gender = $2",
	)).WithArgs(int64(1), GenderFemale).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	cols := []string{
		"id", "username", "password_hash", "gender", "date_of_birth", "known_as",
		"created", "last_active", "introduction", "looking_for", "interests",
		"city", "country", "photo_url",
	}
	mock.ExpectQuery(`LEFT JOIN photos p(.|\n)*ORDER BY u.last_active DESC, u.id DESC(.|\n)*LIMIT \$3 OFFSET \$4`).
		WithArgs(int64(1), GenderFemale, 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			2, "lola", "x", GenderFemale, today.AddDate(-30, 0, 0), "Lola",
			today, today, "", "", "", "Denver", "US", "http://img/2.jpg",
		))

	rows, total, err := repo.List(context.Background(), b, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "lola", rows[0].Username)
	assert.Equal(t, "http://img/2.jpg", rows[0].PhotoURL.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerListSetsPaginationHeader(t *testing.T) {
	repo := &fakeRepo{
		users: map[int64]*User{1: {ID: 1, Gender: GenderFemale}},
		total: 0,
	}
	h := NewHandler(newTestService(repo, nil))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(access.WithCaller(req.Context(), access.Caller{ID: 1})))
		})
	})
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?page=1&page_size=5&min_age=20", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"currentPage":1,"itemsPerPage":5,"totalItems":0,"totalPages":0}`,
		rec.Header().Get(core.PaginationHeader),
	)
	assert.Equal(t, GenderMale, repo.builder.Args()[1])
}
