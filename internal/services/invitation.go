package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"familyrelay/internal/domain"
)

type invitationService struct {
	userRepo       domain.UserRepository
	tokenRepo      domain.DeviceTokenRepository
	familyService  domain.FamilyService
	pusher         domain.Pusher
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewInvitationService creates an InvitationService with the given
// collaborators.
func NewInvitationService(
	userRepo domain.UserRepository,
	tokenRepo domain.DeviceTokenRepository,
	familyService domain.FamilyService,
	pusher domain.Pusher,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		familyService:  familyService,
		pusher:         pusher,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// SendInvite pushes an invite notification to the invitee's device. When the
// invitee has no registered device token the invite is sent by email instead.
// Membership is not touched; only AcceptInvite mutates the member set.
func (s *invitationService) SendInvite(ctx context.Context, callerID, callerEmail, inviteeEmail string) (*domain.InviteReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email := strings.TrimSpace(strings.ToLower(inviteeEmail))
	if email == "" {
		return nil, fmt.Errorf("%w: invitee email is required", domain.ErrInvalidInput)
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve invitee: %w", err)
	}
	if invitee.ID == callerID {
		return nil, fmt.Errorf("%w: cannot invite yourself", domain.ErrInvalidInput)
	}

	token, err := s.tokenRepo.Get(ctx, invitee.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoDeviceToken) {
			return s.sendInviteEmail(ctx, email, callerID, callerEmail)
		}
		return nil, fmt.Errorf("get device token: %w", err)
	}

	deliveryID, err := s.pusher.Send(ctx, token.Token, domain.NewInviteNotification(callerEmail))
	if err != nil {
		return nil, fmt.Errorf("%w: push invite: %v", domain.ErrDeliveryFailed, err)
	}
	return &domain.InviteReceipt{Channel: domain.InviteChannelPush, DeliveryID: deliveryID}, nil
}

func (s *invitationService) sendInviteEmail(ctx context.Context, inviteeEmail, callerID, callerEmail string) (*domain.InviteReceipt, error) {
	inviterName := callerEmail
	if inviter, err := s.userRepo.GetByID(ctx, callerID); err == nil && inviter.Name != "" {
		inviterName = inviter.Name
	}
	data := &domain.FamilyInviteEmailData{
		Email:        inviteeEmail,
		InviterEmail: callerEmail,
		InviterName:  inviterName,
	}
	if err := s.emailService.SendFamilyInvitation(ctx, data); err != nil {
		return nil, fmt.Errorf("%w: email invite: %v", domain.ErrDeliveryFailed, err)
	}
	return &domain.InviteReceipt{Channel: domain.InviteChannelEmail}, nil
}

// AcceptInvite adds the caller to the inviter's family and pushes a
// confirmation back to the inviter. The membership change and the
// confirmation are independent: once AddMember succeeded, a failed
// confirmation is reported as Confirmed=false, never as an error.
func (s *invitationService) AcceptInvite(ctx context.Context, callerID, callerEmail, inviterEmail string) (*domain.AcceptReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email := strings.TrimSpace(strings.ToLower(inviterEmail))
	if email == "" {
		return nil, fmt.Errorf("%w: inviter email is required", domain.ErrInvalidInput)
	}

	inviter, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve inviter: %w", err)
	}

	family, err := s.familyService.FindFamilyByCreator(ctx, inviter.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoFamily) || errors.Is(err, domain.ErrMultipleFamilies) {
			return nil, err
		}
		return nil, fmt.Errorf("find inviter family: %w", err)
	}

	if err := s.familyService.AddMember(ctx, family.ID, callerID); err != nil {
		return nil, fmt.Errorf("join family: %w", err)
	}

	receipt := &domain.AcceptReceipt{FamilyID: family.ID}

	token, err := s.tokenRepo.Get(ctx, inviter.ID)
	if err != nil {
		return receipt, nil
	}
	if _, err := s.pusher.Send(ctx, token.Token, domain.NewAcceptInviteNotification(callerEmail)); err != nil {
		return receipt, nil
	}
	receipt.Confirmed = true
	return receipt, nil
}
