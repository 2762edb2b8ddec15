package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyrelay/internal/domain"
)

func TestDeviceTokenRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		updatedAt := time.Now()
		mock.ExpectQuery(`SELECT user_id, token, updated_at FROM device_tokens`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "token", "updated_at"}).
				AddRow("u1", "tok-1", updatedAt))

		repo := NewDeviceTokenRepository(db)
		token, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token.Token)
	})

	t.Run("absent token returns ErrNoDeviceToken", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id, token, updated_at FROM device_tokens`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "token", "updated_at"}))

		repo := NewDeviceTokenRepository(db)
		_, err = repo.Get(ctx, "u1")
		require.ErrorIs(t, err, domain.ErrNoDeviceToken)
	})
}

func TestDeviceTokenRepository_Set(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO device_tokens`).
		WithArgs("u1", "tok-new", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewDeviceTokenRepository(db)
	require.NoError(t, repo.Set(ctx, "u1", "tok-new"))
	require.NoError(t, mock.ExpectationsWereMet())
}
