package postgres

import (
	"context"
	"database/sql"
	"errors"

	"talkproposals/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM conferences
		WHERE id = $1
	`
	c := &domain.Conference{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Conference, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM conferences
		WHERE slug = $1
	`
	c := &domain.Conference{}
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
