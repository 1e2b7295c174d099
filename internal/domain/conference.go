package domain

import (
	"context"
	"time"
)

// Conference is the event instance every record is scoped to. Conferences are
// provisioned out of band; this service reads the configured one.
// swagger:model Conference
type Conference struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConferenceRepository defines read access to conference records.
type ConferenceRepository interface {
	GetByID(ctx context.Context, id string) (*Conference, error)
	GetBySlug(ctx context.Context, slug string) (*Conference, error)
}
