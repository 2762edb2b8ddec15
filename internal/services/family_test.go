package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyrelay/internal/domain"
)

// mockFamilyRepository is an in-memory FamilyRepository. It is safe for
// concurrent use and enforces the same one-family-per-creator constraint as
// the postgres implementation, so it can back the race tests.
type mockFamilyRepository struct {
	mu       sync.Mutex
	families map[string]*domain.Family
	nextID   int

	createErr error
	listErr   error
}

func newMockFamilyRepository() *mockFamilyRepository {
	return &mockFamilyRepository{families: make(map[string]*domain.Family)}
}

func (m *mockFamilyRepository) Create(ctx context.Context, family *domain.Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, f := range m.families {
		if f.CreatorID == family.CreatorID {
			return domain.ErrFamilyExists
		}
	}
	m.nextID++
	family.ID = fmt.Sprintf("fam-%d", m.nextID)
	stored := *family
	stored.MemberIDs = append([]string(nil), family.MemberIDs...)
	m.families[family.ID] = &stored
	return nil
}

func (m *mockFamilyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.families[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (m *mockFamilyRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Family
	for _, f := range m.families {
		if f.CreatorID == creatorID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFamilyRepository) ListByMemberID(ctx context.Context, userID string) ([]*domain.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Family
	for _, f := range m.families {
		if f.HasMember(userID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFamilyRepository) AddMember(ctx context.Context, familyID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.families[familyID]
	if !ok {
		return domain.ErrNotFound
	}
	if !f.HasMember(userID) {
		f.MemberIDs = append(f.MemberIDs, userID)
	}
	return nil
}

func (m *mockFamilyRepository) RemoveMember(ctx context.Context, familyID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.families[familyID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, id := range f.MemberIDs {
		if id == userID {
			f.MemberIDs = append(f.MemberIDs[:i], f.MemberIDs[i+1:]...)
			break
		}
	}
	return nil
}

// seed inserts a family directly, bypassing the uniqueness check, so tests
// can set up corrupted state.
func (m *mockFamilyRepository) seed(f *domain.Family) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.families[f.ID] = f
}

func TestFamilyService_CreateFamily(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a new family with the owner as sole member", func(t *testing.T) {
		repo := newMockFamilyRepository()
		svc := NewFamilyService(repo, time.Second)

		family, created, err := svc.CreateFamily(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "u1", family.CreatorID)
		assert.Equal(t, []string{"u1"}, family.MemberIDs)
		assert.NotEmpty(t, family.ID)
	})

	t.Run("returns the existing family on retry", func(t *testing.T) {
		repo := newMockFamilyRepository()
		svc := NewFamilyService(repo, time.Second)

		first, created, err := svc.CreateFamily(ctx, "u1")
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := svc.CreateFamily(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("rejects an empty owner", func(t *testing.T) {
		svc := NewFamilyService(newMockFamilyRepository(), time.Second)
		_, _, err := svc.CreateFamily(ctx, "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("reports two owned families as an invariant violation", func(t *testing.T) {
		repo := newMockFamilyRepository()
		repo.seed(&domain.Family{ID: "fam-a", CreatorID: "u1", MemberIDs: []string{"u1"}})
		repo.seed(&domain.Family{ID: "fam-b", CreatorID: "u1", MemberIDs: []string{"u1"}})
		svc := NewFamilyService(repo, time.Second)

		_, _, err := svc.CreateFamily(ctx, "u1")
		require.ErrorIs(t, err, domain.ErrFamilyInvariant)
	})

	t.Run("losing the create race resolves to the winner's family", func(t *testing.T) {
		repo := newMockFamilyRepository()
		svc := NewFamilyService(repo, time.Second)

		// Another caller wins between our lookup and our insert: simulate
		// by making Create conflict while the list is still empty.
		repo.createErr = domain.ErrFamilyExists
		repo.seed(&domain.Family{ID: "fam-winner", CreatorID: "u1", MemberIDs: []string{"u1"}})

		family, created, err := svc.CreateFamily(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "fam-winner", family.ID)
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		repo := newMockFamilyRepository()
		repo.listErr = errors.New("store down")
		svc := NewFamilyService(repo, time.Second)

		_, _, err := svc.CreateFamily(ctx, "u1")
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrFamilyInvariant)
	})
}

func TestFamilyService_CreateFamily_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := newMockFamilyRepository()
	svc := NewFamilyService(repo, time.Second)

	const callers = 16
	var wg sync.WaitGroup
	createdCount := make(chan bool, callers)
	familyIDs := make(chan string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			family, created, err := svc.CreateFamily(ctx, "u1")
			require.NoError(t, err)
			createdCount <- created
			familyIDs <- family.ID
		}()
	}
	wg.Wait()
	close(createdCount)
	close(familyIDs)

	var created int
	for c := range createdCount {
		if c {
			created++
		}
	}
	assert.Equal(t, 1, created, "exactly one caller must create the family")

	ids := make(map[string]struct{})
	for id := range familyIDs {
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 1, "all callers must observe the same family")

	families, err := repo.ListByCreatorID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, families, 1)
}

func TestFamilyService_FindFamilyByCreator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		seed     []*domain.Family
		wantErr  error
		wantID   string
	}{
		{
			name:    "none",
			wantErr: domain.ErrNoFamily,
		},
		{
			name:   "found",
			seed:   []*domain.Family{{ID: "fam-1", CreatorID: "u1", MemberIDs: []string{"u1"}}},
			wantID: "fam-1",
		},
		{
			name: "ambiguous",
			seed: []*domain.Family{
				{ID: "fam-1", CreatorID: "u1", MemberIDs: []string{"u1"}},
				{ID: "fam-2", CreatorID: "u1", MemberIDs: []string{"u1"}},
			},
			wantErr: domain.ErrMultipleFamilies,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockFamilyRepository()
			for _, f := range tt.seed {
				repo.seed(f)
			}
			svc := NewFamilyService(repo, time.Second)

			family, err := svc.FindFamilyByCreator(ctx, "u1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, family.ID)
		})
	}
}

func TestFamilyService_FindFamilyByMember(t *testing.T) {
	ctx := context.Background()
	repo := newMockFamilyRepository()
	repo.seed(&domain.Family{ID: "fam-1", CreatorID: "u1", MemberIDs: []string{"u1", "u2"}})
	svc := NewFamilyService(repo, time.Second)

	family, err := svc.FindFamilyByMember(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "fam-1", family.ID)

	_, err = svc.FindFamilyByMember(ctx, "u3")
	require.ErrorIs(t, err, domain.ErrNoFamily)
}

func TestFamilyService_Membership(t *testing.T) {
	ctx := context.Background()
	repo := newMockFamilyRepository()
	repo.seed(&domain.Family{ID: "fam-1", CreatorID: "u1", MemberIDs: []string{"u1"}})
	svc := NewFamilyService(repo, time.Second)

	require.NoError(t, svc.AddMember(ctx, "fam-1", "u2"))
	// Adding twice yields the same member set.
	require.NoError(t, svc.AddMember(ctx, "fam-1", "u2"))

	family, err := svc.GetFamily(ctx, "fam-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, family.MemberIDs)

	require.NoError(t, svc.RemoveMember(ctx, "fam-1", "u2"))
	// Removing a non-member is a no-op.
	require.NoError(t, svc.RemoveMember(ctx, "fam-1", "u2"))

	family, err = svc.GetFamily(ctx, "fam-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, family.MemberIDs)

	require.ErrorIs(t, svc.AddMember(ctx, "missing", "u2"), domain.ErrNotFound)
	require.ErrorIs(t, svc.RemoveMember(ctx, "missing", "u2"), domain.ErrNotFound)
}
