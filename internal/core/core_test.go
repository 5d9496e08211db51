// AngelaMos | 2026
// core_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/dating-api/internal/paging"
)

func TestFromErrorMapsTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get photo: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", fmt.Errorf("set main: %w", ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"duplicate", ErrDuplicateKey, http.StatusConflict, "DUPLICATE"},
		{"upstream", fmt.Errorf("delete media: %w", ErrUpstream), http.StatusBadGateway, "UPSTREAM_FAILURE"},
		{"persistence", ErrPersistence, http.StatusBadRequest, "PERSISTENCE_FAILURE"},
		{"rejection keeps message", fmt.Errorf("set main: %w", Rejection("This is already the main photo")), http.StatusBadRequest, "INVALID_OPERATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromError(tt.err, "photo")
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	assert.Nil(t, FromError(errors.New("boom"), "photo"))
}

func TestRejectionUnwrapsToInvalidOperation(t *testing.T) {
	err := fmt.Errorf("delete photo: %w", Rejection("Can't remove main photo"))

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, "Can't remove main photo", FromError(err, "photo").Message)
}

func TestHandleErrorFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, errors.New("db exploded"), "user")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestPaginatedWritesHeaderAndItems(t *testing.T) {
	rec := httptest.NewRecorder()
	p, err := paging.New(2, 5, 11)
	require.NoError(t, err)

	Paginated(rec, []string{"a", "b"}, p)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"currentPage":2,"itemsPerPage":5,"totalItems":11,"totalPages":3}`,
		rec.Header().Get(PaginationHeader),
	)
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), PaginationHeader)

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"a", "b"}, body.Data)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)

	ok, err := VerifyPassword("password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("Password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("password", "$2a$10$notargon")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("password", "$argon2id$v=19$m=x$c2FsdA$a2V5")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestStaleParamsAreRehashed(t *testing.T) {
	old := argonParams{memory: 16 * 1024, time: 1, threads: 2, keyLen: 32}
	salt := []byte("0123456789abcdef")
	stale := old.encode(salt, old.key("password", salt))

	ok, rehash, err := VerifyPasswordWithRehash("password", stale)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, rehash)
	assert.False(t, needsRehash(rehash))

	current, err := HashPassword("password")
	require.NoError(t, err)
	_, rehash, err = VerifyPasswordWithRehash("password", current)
	require.NoError(t, err)
	assert.Empty(t, rehash)
}

func TestVerifyPasswordTimingSafeUnknownUser(t *testing.T) {
	ok, rehash, err := VerifyPasswordTimingSafe("password", "")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rehash)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestInTxRollsBackOnError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("stop")
	err = InTx(t.Context(), db, func(tx *sqlx.Tx) error { return sentinel })

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxCommits(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = InTx(t.Context(), db, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(t.Context(), "UPDATE users SET known_as = 'x'")
		return execErr
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
