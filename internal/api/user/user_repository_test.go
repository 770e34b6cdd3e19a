package user

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink/internal/types"
)

func newRepoTestFixture(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewPostgresRepository(mockPool, slog.New(slog.DiscardHandler))
	return repo, mockPool
}

func userRowColumns() []string {
	return []string{
		"id", "email", "first_name", "last_name", "role",
		"is_disabled", "is_deleted", "is_email_verified", "created_at", "updated_at",
	}
}

func TestPostgresRepository_ListUsers(t *testing.T) {
	repo, mockPool := newRepoTestFixture(t)
	defer mockPool.Close()

	now := time.Now()
	mockPool.ExpectQuery("SELECT (.+) FROM users WHERE is_deleted = FALSE").
		WillReturnRows(pgxmock.NewRows(userRowColumns()).
			AddRow(uuid.New(), "b@example.com", "Bob", "Brown", types.RoleUser, false, false, false, now, now).
			AddRow(uuid.New(), "a@example.com", "Ann", "Avery", types.RoleAdmin, false, false, true, now, now))

	users, err := repo.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "b@example.com", users[0].Email)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_GetUserByID(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		repo, mockPool := newRepoTestFixture(t)
		defer mockPool.Close()

		id := uuid.New()
		now := time.Now()
		mockPool.ExpectQuery("SELECT (.+) FROM users WHERE id =").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(userRowColumns()).
				AddRow(id, "jane@example.com", "Jane", "Doe", types.RoleUser, false, false, false, now, now))

		user, err := repo.GetUserByID(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("maps no rows to not found", func(t *testing.T) {
		repo, mockPool := newRepoTestFixture(t)
		defer mockPool.Close()

		id := uuid.New()
		mockPool.ExpectQuery("SELECT (.+) FROM users WHERE id =").
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetUserByID(context.Background(), id)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresRepository_UpdateUser(t *testing.T) {
	t.Run("updates only the provided columns", func(t *testing.T) {
		repo, mockPool := newRepoTestFixture(t)
		defer mockPool.Close()

		id := uuid.New()
		role := types.RoleAdmin
		disabled := true
		mockPool.ExpectExec(`UPDATE users SET role = \$1, is_disabled = \$2, updated_at = \$3`).
			WithArgs(role, disabled, pgxmock.AnyArg(), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateUser(context.Background(), id, UpdateUserData{
			Role:       &role,
			IsDisabled: &disabled,
		})

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no-ops when nothing was provided", func(t *testing.T) {
		repo, mockPool := newRepoTestFixture(t)
		defer mockPool.Close()

		err := repo.UpdateUser(context.Background(), uuid.New(), UpdateUserData{})

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("maps zero affected rows to not found", func(t *testing.T) {
		repo, mockPool := newRepoTestFixture(t)
		defer mockPool.Close()

		id := uuid.New()
		first := "Jane"
		mockPool.ExpectExec(`UPDATE users SET first_name = \$1`).
			WithArgs(first, pgxmock.AnyArg(), id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateUser(context.Background(), id, UpdateUserData{FirstName: &first})

		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresRepository_SoftDeleteUser(t *testing.T) {
	repo, mockPool := newRepoTestFixture(t)
	defer mockPool.Close()

	id := uuid.New()
	mockPool.ExpectExec("UPDATE users SET is_deleted = TRUE").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SoftDeleteUser(context.Background(), id))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
