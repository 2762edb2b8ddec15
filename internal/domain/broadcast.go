package domain

import "context"

// DeliveryStatus is the per-recipient result of one dispatch attempt.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryNotSent DeliveryStatus = "not_sent"
)

// ReasonNoDeviceToken marks a recipient that could not be reached because no
// device token is registered for them.
const ReasonNoDeviceToken = "no device token"

// AggregateStatus summarizes all per-recipient outcomes of one broadcast.
type AggregateStatus string

const (
	StatusAllSent  AggregateStatus = "all_sent"
	StatusSomeSent AggregateStatus = "some_sent"
	StatusNoneSent AggregateStatus = "none_sent"
	// StatusNoRecipients is returned when the caller is the only member of
	// the family, so there was nobody to notify.
	StatusNoRecipients AggregateStatus = "no_recipients"
)

// DeliveryOutcome records the dispatch attempt for one recipient.
// swagger:model DeliveryOutcome
type DeliveryOutcome struct {
	UserID     string         `json:"user_id"`
	Status     DeliveryStatus `json:"status"`
	DeliveryID string         `json:"delivery_id,omitempty"`
	Reason     string         `json:"reason,omitempty"`
}

// BroadcastResult is the aggregate of all per-recipient outcomes.
// swagger:model BroadcastResult
type BroadcastResult struct {
	Status   AggregateStatus   `json:"status"`
	Outcomes []DeliveryOutcome `json:"outcomes"`
}

// BroadcastService dispatches one notification to every family member except
// the caller, concurrently, and reduces the outcomes into one result.
type BroadcastService interface {
	BroadcastToFamily(ctx context.Context, callerID, familyID string, n *Notification) (*BroadcastResult, error)
}
