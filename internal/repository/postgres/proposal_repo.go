package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"talkproposals/internal/domain"
)

type proposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) domain.ProposalRepository {
	return &proposalRepository{
		DB: db,
	}
}

const talkColumns = `id, conference_id, submitter_id, title, abstract, detailed_description, outline, objective, supplementary, labels, cancelled, accepted, duration, first_time_speaker, created_at, updated_at`

const tutorialColumns = `id, conference_id, submitter_id, title, abstract, detailed_description, outline, objective, supplementary, labels, cancelled, accepted, duration, created_at, updated_at`

// tableFor maps a proposal kind to its table. Each variant has its own table;
// polymorphic references are resolved through this mapping.
func tableFor(kind domain.ProposalKind) (string, error) {
	switch kind {
	case domain.ProposalKindTalk:
		return "talk_proposals", nil
	case domain.ProposalKindTutorial:
		return "tutorial_proposals", nil
	}
	return "", fmt.Errorf("%w: unknown proposal kind %q", domain.ErrInvalidInput, kind)
}

func scanTalk(row interface{ Scan(...any) error }) (*domain.TalkProposal, error) {
	p := &domain.TalkProposal{}
	var accepted sql.NullBool
	err := row.Scan(
		&p.ID, &p.ConferenceID, &p.SubmitterID,
		&p.Title, &p.Abstract, &p.DetailedDescription, &p.Outline, &p.Objective, &p.Supplementary, &p.Labels,
		&p.Cancelled, &accepted, &p.Duration, &p.FirstTimeSpeaker, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if accepted.Valid {
		p.Accepted = &accepted.Bool
	}
	return p, nil
}

func scanTutorial(row interface{ Scan(...any) error }) (*domain.TutorialProposal, error) {
	p := &domain.TutorialProposal{}
	var accepted sql.NullBool
	err := row.Scan(
		&p.ID, &p.ConferenceID, &p.SubmitterID,
		&p.Title, &p.Abstract, &p.DetailedDescription, &p.Outline, &p.Objective, &p.Supplementary, &p.Labels,
		&p.Cancelled, &accepted, &p.Duration, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if accepted.Valid {
		p.Accepted = &accepted.Bool
	}
	return p, nil
}

func (r *proposalRepository) CreateTalk(ctx context.Context, p *domain.TalkProposal) error {
	query := `
		INSERT INTO talk_proposals (conference_id, submitter_id, title, abstract, detailed_description, outline, objective, supplementary, labels, cancelled, duration, first_time_speaker, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		p.ConferenceID, p.SubmitterID, p.Title, p.Abstract, p.DetailedDescription, p.Outline,
		p.Objective, p.Supplementary, p.Labels, p.Cancelled, p.Duration, p.FirstTimeSpeaker,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *proposalRepository) CreateTutorial(ctx context.Context, p *domain.TutorialProposal) error {
	query := `
		INSERT INTO tutorial_proposals (conference_id, submitter_id, title, abstract, detailed_description, outline, objective, supplementary, labels, cancelled, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		p.ConferenceID, p.SubmitterID, p.Title, p.Abstract, p.DetailedDescription, p.Outline,
		p.Objective, p.Supplementary, p.Labels, p.Cancelled, p.Duration,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *proposalRepository) Get(ctx context.Context, conferenceID string, ref domain.ProposalRef) (domain.Proposal, error) {
	switch ref.Kind {
	case domain.ProposalKindTalk:
		return r.GetTalk(ctx, conferenceID, ref.ID)
	case domain.ProposalKindTutorial:
		return r.GetTutorial(ctx, conferenceID, ref.ID)
	}
	return nil, fmt.Errorf("%w: unknown proposal kind %q", domain.ErrInvalidInput, ref.Kind)
}

func (r *proposalRepository) GetTalk(ctx context.Context, conferenceID string, id int64) (*domain.TalkProposal, error) {
	query := `
		SELECT ` + talkColumns + `
		FROM talk_proposals
		WHERE conference_id = $1 AND id = $2
	`
	p, err := scanTalk(r.DB.QueryRowContext(ctx, query, conferenceID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *proposalRepository) GetTutorial(ctx context.Context, conferenceID string, id int64) (*domain.TutorialProposal, error) {
	query := `
		SELECT ` + tutorialColumns + `
		FROM tutorial_proposals
		WHERE conference_id = $1 AND id = $2
	`
	p, err := scanTutorial(r.DB.QueryRowContext(ctx, query, conferenceID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *proposalRepository) UpdateTalk(ctx context.Context, conferenceID string, id int64, u domain.TalkUpdate) (*domain.TalkProposal, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Abstract != nil {
		add("abstract", *u.Abstract)
	}
	if u.DetailedDescription != nil {
		add("detailed_description", *u.DetailedDescription)
	}
	if u.Outline != nil {
		add("outline", *u.Outline)
	}
	if u.Objective != nil {
		add("objective", *u.Objective)
	}
	if u.Supplementary != nil {
		add("supplementary", *u.Supplementary)
	}
	if u.Labels != nil {
		add("labels", *u.Labels)
	}
	if u.Duration != nil {
		add("duration", *u.Duration)
	}
	if u.FirstTimeSpeaker != nil {
		add("first_time_speaker", *u.FirstTimeSpeaker)
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetTalk(ctx, conferenceID, id)
	}
	args = append(args, conferenceID, id)
	query := fmt.Sprintf(`
		UPDATE talk_proposals SET %s
		WHERE conference_id = $%d AND id = $%d
		RETURNING `+talkColumns+`
	`, strings.Join(setClauses, ", "), n, n+1)
	p, err := scanTalk(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *proposalRepository) UpdateTutorial(ctx context.Context, conferenceID string, id int64, u domain.TutorialUpdate) (*domain.TutorialProposal, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Abstract != nil {
		add("abstract", *u.Abstract)
	}
	if u.DetailedDescription != nil {
		add("detailed_description", *u.DetailedDescription)
	}
	if u.Outline != nil {
		add("outline", *u.Outline)
	}
	if u.Objective != nil {
		add("objective", *u.Objective)
	}
	if u.Supplementary != nil {
		add("supplementary", *u.Supplementary)
	}
	if u.Labels != nil {
		add("labels", *u.Labels)
	}
	if n == 1 {
		return r.GetTutorial(ctx, conferenceID, id)
	}
	args = append(args, conferenceID, id)
	query := fmt.Sprintf(`
		UPDATE tutorial_proposals SET %s
		WHERE conference_id = $%d AND id = $%d
		RETURNING `+tutorialColumns+`
	`, strings.Join(setClauses, ", "), n, n+1)
	p, err := scanTutorial(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *proposalRepository) SetCancelled(ctx context.Context, conferenceID string, ref domain.ProposalRef, cancelled bool) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET cancelled = $3, updated_at = NOW() WHERE conference_id = $1 AND id = $2`, table)
	result, err := r.DB.ExecContext(ctx, query, conferenceID, ref.ID, cancelled)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *proposalRepository) SetAccepted(ctx context.Context, conferenceID string, ref domain.ProposalRef, accepted *bool) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}
	var value sql.NullBool
	if accepted != nil {
		value = sql.NullBool{Bool: *accepted, Valid: true}
	}
	query := fmt.Sprintf(`UPDATE %s SET accepted = $3, updated_at = NOW() WHERE conference_id = $1 AND id = $2`, table)
	result, err := r.DB.ExecContext(ctx, query, conferenceID, ref.ID, value)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *proposalRepository) ListAccepted(ctx context.Context, conferenceID string, kind domain.ProposalKind) ([]domain.Proposal, error) {
	where := `conference_id = $1 AND cancelled = FALSE AND accepted = TRUE`
	return r.list(ctx, kind, where, conferenceID)
}

// cospeakerExists tests membership in the user's cospeaking set: any
// additional-speaker row linking the user to the proposal counts, regardless
// of status or cancellation.
const cospeakerExists = `EXISTS (
			SELECT 1 FROM additional_speakers a
			WHERE a.proposal_kind = '%s' AND a.proposal_id = p.id AND a.user_id = $2
		)`

func (r *proposalRepository) ListViewable(ctx context.Context, conferenceID string, kind domain.ProposalKind, userID string) ([]domain.Proposal, error) {
	where := fmt.Sprintf(`p.conference_id = $1 AND (p.submitter_id = $2 OR `+cospeakerExists+`)`, kind)
	return r.list(ctx, kind, where, conferenceID, userID)
}

func (r *proposalRepository) ListReviewable(ctx context.Context, conferenceID string, kind domain.ProposalKind, userID string) ([]domain.Proposal, error) {
	where := fmt.Sprintf(`p.conference_id = $1 AND NOT (p.cancelled OR p.submitter_id = $2 OR `+cospeakerExists+`)`, kind)
	return r.list(ctx, kind, where, conferenceID, userID)
}

func (r *proposalRepository) list(ctx context.Context, kind domain.ProposalKind, where string, args ...any) ([]domain.Proposal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	columns := tutorialColumns
	if kind == domain.ProposalKindTalk {
		columns = talkColumns
	}
	prefixed := "p." + strings.ReplaceAll(columns, ", ", ", p.")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		WHERE %s
		ORDER BY p.id
	`, prefixed, table, where)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	proposals := make([]domain.Proposal, 0)
	for rows.Next() {
		var p domain.Proposal
		if kind == domain.ProposalKindTalk {
			p, err = scanTalk(rows)
		} else {
			p, err = scanTutorial(rows)
		}
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
