package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"familyrelay/internal/domain"
)

type broadcastService struct {
	familyRepo     domain.FamilyRepository
	tokenRepo      domain.DeviceTokenRepository
	pusher         domain.Pusher
	contextTimeout time.Duration
}

// NewBroadcastService creates a BroadcastService with the given
// collaborators.
func NewBroadcastService(
	familyRepo domain.FamilyRepository,
	tokenRepo domain.DeviceTokenRepository,
	pusher domain.Pusher,
	timeout time.Duration,
) domain.BroadcastService {
	return &broadcastService{
		familyRepo:     familyRepo,
		tokenRepo:      tokenRepo,
		pusher:         pusher,
		contextTimeout: timeout,
	}
}

// BroadcastToFamily dispatches n to every family member except the caller.
// Each recipient's pipeline (token lookup, push) runs in its own goroutine;
// a failure for one recipient never aborts the others. All dispatches are
// joined before the outcomes are reduced into the aggregate status.
func (s *broadcastService) BroadcastToFamily(ctx context.Context, callerID, familyID string, n *domain.Notification) (*domain.BroadcastResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get family: %w", err)
	}

	recipients := make([]string, 0, len(family.MemberIDs))
	for _, id := range family.MemberIDs {
		if id != callerID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return &domain.BroadcastResult{
			Status:   domain.StatusNoRecipients,
			Outcomes: []domain.DeliveryOutcome{},
		}, nil
	}

	outcomes := make([]domain.DeliveryOutcome, len(recipients))
	var wg sync.WaitGroup
	for i, userID := range recipients {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			outcomes[i] = s.dispatch(ctx, userID, n)
		}(i, userID)
	}
	wg.Wait()

	status, err := reduceOutcomes(outcomes)
	if err != nil {
		return nil, err
	}
	return &domain.BroadcastResult{Status: status, Outcomes: outcomes}, nil
}

// dispatch runs one recipient's pipeline and recovers every failure into a
// not-sent outcome.
func (s *broadcastService) dispatch(ctx context.Context, userID string, n *domain.Notification) domain.DeliveryOutcome {
	token, err := s.tokenRepo.Get(ctx, userID)
	if err != nil {
		reason := fmt.Sprintf("get device token: %v", err)
		if errors.Is(err, domain.ErrNoDeviceToken) {
			reason = domain.ReasonNoDeviceToken
		}
		return domain.DeliveryOutcome{UserID: userID, Status: domain.DeliveryNotSent, Reason: reason}
	}
	deliveryID, err := s.pusher.Send(ctx, token.Token, n)
	if err != nil {
		return domain.DeliveryOutcome{UserID: userID, Status: domain.DeliveryNotSent, Reason: err.Error()}
	}
	return domain.DeliveryOutcome{UserID: userID, Status: domain.DeliverySent, DeliveryID: deliveryID}
}

// reduceOutcomes folds per-recipient outcomes into one aggregate status. An
// outcome carrying an unknown status means a bug in the dispatch pipeline and
// fails the whole broadcast.
func reduceOutcomes(outcomes []domain.DeliveryOutcome) (domain.AggregateStatus, error) {
	var sent, notSent int
	for _, o := range outcomes {
		switch o.Status {
		case domain.DeliverySent:
			sent++
		case domain.DeliveryNotSent:
			notSent++
		default:
			return "", fmt.Errorf("unrecognized delivery outcome %q for user %s", o.Status, o.UserID)
		}
	}
	switch {
	case notSent == 0:
		return domain.StatusAllSent, nil
	case sent == 0:
		return domain.StatusNoneSent, nil
	default:
		return domain.StatusSomeSent, nil
	}
}
