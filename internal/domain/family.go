package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for family operations.
var (
	// ErrNotFound is returned when a referenced family does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when the request is invalid (e.g. inviting yourself).
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNoFamily is returned when a lookup by creator or member matches no family.
	ErrNoFamily = errors.New("no family")
	// ErrMultipleFamilies is returned when a lookup matches more than one family.
	// It is reported, never auto-resolved.
	ErrMultipleFamilies = errors.New("multiple families")
	// ErrFamilyExists is returned by the repository when a family with the
	// same creator already exists.
	ErrFamilyExists = errors.New("family already exists")
	// ErrFamilyInvariant is returned when more than one family with the same
	// creator is found in storage. The single-owner invariant guarantees this
	// never happens; its occurrence is a bug, not a handled case.
	ErrFamilyInvariant = errors.New("more than one family owned by a single creator")
)

// Family is a group with one creator and a set of members. The creator is
// always a member; every user owns at most one family.
// swagger:model Family
type Family struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFamily returns a Family owned by creatorID with the creator as its only
// member. ID is set by the repository on create.
func NewFamily(creatorID string, createdAt time.Time) *Family {
	return &Family{
		CreatorID: creatorID,
		MemberIDs: []string{creatorID},
		CreatedAt: createdAt,
	}
}

// HasMember reports whether userID is in the member set.
func (f *Family) HasMember(userID string) bool {
	for _, id := range f.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FamilyRepository defines the interface for family storage. Membership
// mutations are atomic set-inserts and set-removes against the persisted
// record; implementations must never rewrite the whole member list.
type FamilyRepository interface {
	// Create persists a new family. Returns ErrFamilyExists when a family
	// with the same creator already exists (enforced atomically by the store).
	Create(ctx context.Context, family *Family) error
	GetByID(ctx context.Context, id string) (*Family, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]*Family, error)
	ListByMemberID(ctx context.Context, userID string) ([]*Family, error)
	// AddMember is idempotent; adding an existing member is a no-op.
	// Returns ErrNotFound when the family does not exist.
	AddMember(ctx context.Context, familyID, userID string) error
	// RemoveMember is idempotent; removing a non-member is a no-op.
	// Returns ErrNotFound when the family does not exist.
	RemoveMember(ctx context.Context, familyID, userID string) error
}

// FamilyService defines the business logic for family membership.
type FamilyService interface {
	// CreateFamily is idempotent: created is true when a new family was
	// persisted, false when the caller's existing family is returned.
	CreateFamily(ctx context.Context, ownerID string) (family *Family, created bool, err error)
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	FindFamilyByCreator(ctx context.Context, ownerID string) (*Family, error)
	FindFamilyByMember(ctx context.Context, userID string) (*Family, error)
	AddMember(ctx context.Context, familyID, userID string) error
	RemoveMember(ctx context.Context, familyID, userID string) error
}
