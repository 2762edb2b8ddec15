package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"familyrelay/internal/domain"
)

type familyService struct {
	familyRepo     domain.FamilyRepository
	contextTimeout time.Duration
}

// NewFamilyService creates a FamilyService with the given repository.
func NewFamilyService(familyRepo domain.FamilyRepository, timeout time.Duration) domain.FamilyService {
	return &familyService{
		familyRepo:     familyRepo,
		contextTimeout: timeout,
	}
}

// CreateFamily creates a family owned by ownerID, or returns the existing one.
// The check-then-act is backed by the store's unique constraint on the
// creator: losing a concurrent race surfaces as ErrFamilyExists and is
// resolved by returning the winner's family, so retries are no-ops.
func (s *familyService) CreateFamily(ctx context.Context, ownerID string) (*domain.Family, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, false, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}

	existing, err := s.familyRepo.ListByCreatorID(ctx, ownerID)
	if err != nil {
		return nil, false, fmt.Errorf("list families by creator: %w", err)
	}
	switch len(existing) {
	case 0:
	case 1:
		return existing[0], false, nil
	default:
		return nil, false, domain.ErrFamilyInvariant
	}

	family := domain.NewFamily(ownerID, time.Now())
	if err := s.familyRepo.Create(ctx, family); err != nil {
		if errors.Is(err, domain.ErrFamilyExists) {
			// Lost the race against a concurrent create; the other
			// caller's family wins.
			winner, err := s.FindFamilyByCreator(ctx, ownerID)
			if err != nil {
				return nil, false, fmt.Errorf("resolve concurrent create: %w", err)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create family: %w", err)
	}
	return family, true, nil
}

func (s *familyService) GetFamily(ctx context.Context, familyID string) (*domain.Family, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	family, err := s.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return family, nil
}

func (s *familyService) FindFamilyByCreator(ctx context.Context, ownerID string) (*domain.Family, error) {
	families, err := s.familyRepo.ListByCreatorID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list families by creator: %w", err)
	}
	return single(families)
}

func (s *familyService) FindFamilyByMember(ctx context.Context, userID string) (*domain.Family, error) {
	families, err := s.familyRepo.ListByMemberID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list families by member: %w", err)
	}
	return single(families)
}

// single maps a lookup result set onto the no-family / found / ambiguous
// outcomes. Ambiguity is reported, never auto-resolved.
func single(families []*domain.Family) (*domain.Family, error) {
	switch len(families) {
	case 0:
		return nil, domain.ErrNoFamily
	case 1:
		return families[0], nil
	default:
		return nil, domain.ErrMultipleFamilies
	}
}

func (s *familyService) AddMember(ctx context.Context, familyID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.familyRepo.AddMember(ctx, familyID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *familyService) RemoveMember(ctx context.Context, familyID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.familyRepo.RemoveMember(ctx, familyID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}
