package domain

import "context"

// InviteChannel is the channel an invitation was delivered on.
type InviteChannel string

const (
	// InviteChannelPush means the invite was pushed to the invitee's device.
	InviteChannelPush InviteChannel = "push"
	// InviteChannelEmail means the invitee had no device token and the
	// invite was sent by email instead.
	InviteChannelEmail InviteChannel = "email"
)

// InviteReceipt reports how an invitation was delivered.
// swagger:model InviteReceipt
type InviteReceipt struct {
	Channel    InviteChannel `json:"channel"`
	DeliveryID string        `json:"delivery_id,omitempty"`
}

// AcceptReceipt reports the outcome of accepting an invitation. Confirmed is
// false when the caller joined the family but the confirmation push to the
// inviter could not be delivered; the membership change is never rolled back.
// swagger:model AcceptReceipt
type AcceptReceipt struct {
	FamilyID  string `json:"family_id"`
	Confirmed bool   `json:"confirmed"`
}

// InvitationService drives the two-step invite/accept handshake. No state is
// kept between the two calls; the family member set is the only record of
// progress.
type InvitationService interface {
	// SendInvite notifies inviteeEmail that callerEmail invited them. It
	// never mutates membership.
	SendInvite(ctx context.Context, callerID, callerEmail, inviteeEmail string) (*InviteReceipt, error)
	// AcceptInvite adds the caller to the family owned by the user behind
	// inviterEmail and pushes a confirmation back to the inviter.
	AcceptInvite(ctx context.Context, callerID, callerEmail, inviterEmail string) (*AcceptReceipt, error)
}
