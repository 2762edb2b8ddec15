package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"familyrelay/internal/domain"
)

type deviceTokenRepository struct {
	DB *sql.DB
}

func NewDeviceTokenRepository(db *sql.DB) domain.DeviceTokenRepository {
	return &deviceTokenRepository{DB: db}
}

func (r *deviceTokenRepository) Get(ctx context.Context, userID string) (*domain.DeviceToken, error) {
	query := `SELECT user_id, token, updated_at FROM device_tokens WHERE user_id = $1`
	t := &domain.DeviceToken{}
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&t.UserID, &t.Token, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoDeviceToken
		}
		return nil, err
	}
	return t, nil
}

// Set upserts the user's token; last write wins.
func (r *deviceTokenRepository) Set(ctx context.Context, userID, token string) error {
	query := `
		INSERT INTO device_tokens (user_id, token, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, userID, token, time.Now())
	return err
}
