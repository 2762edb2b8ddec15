package domain

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrDeliveryFailed wraps a push or email delivery failure.
var ErrDeliveryFailed = errors.New("delivery failed")

// NotificationType discriminates the payloads relayed between family members.
type NotificationType string

const (
	NotificationLocation     NotificationType = "location"
	NotificationInvite       NotificationType = "invite"
	NotificationAcceptInvite NotificationType = "accept_invite"
)

// Notification is a transient event relayed to a device. It is never
// persisted.
// swagger:model Notification
type Notification struct {
	Type NotificationType `json:"type"`
	// SenderID identifies the originating user for location updates.
	SenderID string `json:"sender_id,omitempty"`
	// InviterEmail is set on invite notifications.
	InviterEmail string `json:"inviter_email,omitempty"`
	// InviteeEmail is set on accept-invite notifications.
	InviteeEmail string `json:"invitee_email,omitempty"`
	// Payload carries the opaque location payload.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewLocationNotification returns a location update from senderID.
func NewLocationNotification(senderID string, payload json.RawMessage) *Notification {
	return &Notification{Type: NotificationLocation, SenderID: senderID, Payload: payload}
}

// NewInviteNotification returns a family invitation from inviterEmail.
func NewInviteNotification(inviterEmail string) *Notification {
	return &Notification{Type: NotificationInvite, InviterEmail: inviterEmail}
}

// NewAcceptInviteNotification returns the confirmation sent back to the
// inviter after inviteeEmail joined.
func NewAcceptInviteNotification(inviteeEmail string) *Notification {
	return &Notification{Type: NotificationAcceptInvite, InviteeEmail: inviteeEmail}
}

// Pusher delivers one notification to one device token (infrastructure port).
// One-shot; no retry at this layer.
type Pusher interface {
	Send(ctx context.Context, deviceToken string, n *Notification) (deliveryID string, err error)
}
