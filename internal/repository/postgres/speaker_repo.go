package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"talkproposals/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.AdditionalSpeaker) error {
	query := `
		INSERT INTO additional_speakers (conference_id, user_id, proposal_kind, proposal_id, status, cancelled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		s.ConferenceID, s.UserID, string(s.Proposal.Kind), s.Proposal.ID, string(s.Status), s.Cancelled, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *speakerRepository) GetByID(ctx context.Context, conferenceID string, id int64) (*domain.AdditionalSpeaker, error) {
	query := `
		SELECT s.id, s.conference_id, s.user_id, s.proposal_kind, s.proposal_id, s.status, s.cancelled, s.created_at,
		       u.id, u.email, u.speaker_name, u.created_at, u.updated_at
		FROM additional_speakers s
		JOIN users u ON u.id = s.user_id
		WHERE s.conference_id = $1 AND s.id = $2
	`
	s, err := scanSpeakerWithUser(r.DB.QueryRowContext(ctx, query, conferenceID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSpeakerWithUser(row interface{ Scan(...any) error }) (*domain.AdditionalSpeaker, error) {
	s := &domain.AdditionalSpeaker{User: &domain.User{}}
	var kind string
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.UserID, &kind, &s.Proposal.ID, &s.Status, &s.Cancelled, &s.CreatedAt,
		&s.User.ID, &s.User.Email, &s.User.SpeakerName, &s.User.CreatedAt, &s.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Proposal.Kind = domain.ProposalKind(kind)
	return s, nil
}

func (r *speakerRepository) ListActiveByProposal(ctx context.Context, conferenceID string, ref domain.ProposalRef) ([]*domain.AdditionalSpeaker, error) {
	query := `
		SELECT s.id, s.conference_id, s.user_id, s.proposal_kind, s.proposal_id, s.status, s.cancelled, s.created_at,
		       u.id, u.email, u.speaker_name, u.created_at, u.updated_at
		FROM additional_speakers s
		JOIN users u ON u.id = s.user_id
		WHERE s.conference_id = $1 AND s.proposal_kind = $2 AND s.proposal_id = $3 AND s.cancelled = FALSE
		ORDER BY s.proposal_kind, s.proposal_id, s.id
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID, string(ref.Kind), ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.AdditionalSpeaker, 0)
	for rows.Next() {
		s, err := scanSpeakerWithUser(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func (r *speakerRepository) CountActiveByProposal(ctx context.Context, conferenceID string, ref domain.ProposalRef) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM additional_speakers
		WHERE conference_id = $1 AND proposal_kind = $2 AND proposal_id = $3 AND cancelled = FALSE
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, conferenceID, string(ref.Kind), ref.ID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *speakerRepository) ListActiveByProposals(ctx context.Context, conferenceID string, kind domain.ProposalKind, ids []int64) (map[int64][]*domain.AdditionalSpeaker, error) {
	byProposal := make(map[int64][]*domain.AdditionalSpeaker)
	if len(ids) == 0 {
		return byProposal, nil
	}
	query := `
		SELECT s.id, s.conference_id, s.user_id, s.proposal_kind, s.proposal_id, s.status, s.cancelled, s.created_at,
		       u.id, u.email, u.speaker_name, u.created_at, u.updated_at
		FROM additional_speakers s
		JOIN users u ON u.id = s.user_id
		WHERE s.conference_id = $1 AND s.proposal_kind = $2 AND s.proposal_id = ANY($3) AND s.cancelled = FALSE
		ORDER BY s.proposal_kind, s.proposal_id, s.id
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID, string(kind), pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSpeakerWithUser(rows)
		if err != nil {
			return nil, err
		}
		byProposal[s.Proposal.ID] = append(byProposal[s.Proposal.ID], s)
	}
	return byProposal, rows.Err()
}

func (r *speakerRepository) SetStatus(ctx context.Context, conferenceID string, id int64, status domain.SpeakingStatus) (*domain.AdditionalSpeaker, error) {
	query := `
		UPDATE additional_speakers
		SET status = $3
		WHERE conference_id = $1 AND id = $2
		RETURNING id
	`
	var updatedID int64
	if err := r.DB.QueryRowContext(ctx, query, conferenceID, id, string(status)).Scan(&updatedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, conferenceID, updatedID)
}

func (r *speakerRepository) SetCancelled(ctx context.Context, conferenceID string, id int64, cancelled bool) error {
	query := `UPDATE additional_speakers SET cancelled = $3 WHERE conference_id = $1 AND id = $2`
	result, err := r.DB.ExecContext(ctx, query, conferenceID, id, cancelled)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
