package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"familyrelay/internal/domain"
)

type familyRepository struct {
	DB *sql.DB
}

func NewFamilyRepository(db *sql.DB) domain.FamilyRepository {
	return &familyRepository{
		DB: db,
	}
}

// Create inserts the family and its creator membership row in one
// transaction. The unique index on creator_id makes the check-and-insert
// atomic: a concurrent create for the same creator loses with a unique
// violation, surfaced as domain.ErrFamilyExists.
func (r *familyRepository) Create(ctx context.Context, family *domain.Family) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO families (creator_id, created_at)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, family.CreatorID, family.CreatedAt).Scan(&family.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrFamilyExists
		}
		return err
	}

	memberQuery := `
		INSERT INTO family_members (family_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (family_id, user_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, memberQuery, family.ID, family.CreatorID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *familyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	query := `SELECT id, creator_id, created_at FROM families WHERE id = $1`
	f := &domain.Family{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.CreatorID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if f.MemberIDs, err = r.listMemberIDs(ctx, f.ID); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *familyRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Family, error) {
	query := `SELECT id, creator_id, created_at FROM families WHERE creator_id = $1 ORDER BY created_at`
	return r.list(ctx, query, creatorID)
}

func (r *familyRepository) ListByMemberID(ctx context.Context, userID string) ([]*domain.Family, error) {
	query := `
		SELECT f.id, f.creator_id, f.created_at
		FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE m.user_id = $1
		ORDER BY f.created_at
	`
	return r.list(ctx, query, userID)
}

func (r *familyRepository) list(ctx context.Context, query, arg string) ([]*domain.Family, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	families := make([]*domain.Family, 0)
	for rows.Next() {
		f := &domain.Family{}
		if err := rows.Scan(&f.ID, &f.CreatorID, &f.CreatedAt); err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, f := range families {
		if f.MemberIDs, err = r.listMemberIDs(ctx, f.ID); err != nil {
			return nil, err
		}
	}
	return families, nil
}

func (r *familyRepository) listMemberIDs(ctx context.Context, familyID string) ([]string, error) {
	query := `SELECT user_id FROM family_members WHERE family_id = $1 ORDER BY user_id`
	rows, err := r.DB.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddMember is an atomic set-insert: ON CONFLICT DO NOTHING makes adding an
// existing member a no-op.
func (r *familyRepository) AddMember(ctx context.Context, familyID, userID string) error {
	query := `
		INSERT INTO family_members (family_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (family_id, user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, familyID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveMember is an atomic set-remove. Removing a non-member is a no-op,
// but a missing family is reported as ErrNotFound.
func (r *familyRepository) RemoveMember(ctx context.Context, familyID, userID string) error {
	query := `DELETE FROM family_members WHERE family_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, familyID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM families WHERE id = $1)`
	if err := r.DB.QueryRowContext(ctx, checkQuery, familyID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}
