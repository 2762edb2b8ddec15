package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoDeviceToken is returned when a user has no registered device token.
var ErrNoDeviceToken = errors.New("no device token")

// DeviceToken is the push-delivery address of a user's device. A user has at
// most one; registering a new token replaces the previous one.
// swagger:model DeviceToken
type DeviceToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceTokenRepository defines the interface for device token storage.
// Set is last-write-wins.
type DeviceTokenRepository interface {
	Get(ctx context.Context, userID string) (*DeviceToken, error)
	Set(ctx context.Context, userID, token string) error
}
