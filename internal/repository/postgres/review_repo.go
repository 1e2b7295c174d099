package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"talkproposals/internal/domain"
)

type llmReviewRepository struct {
	DB *sql.DB
}

func NewLLMReviewRepository(db *sql.DB) domain.LLMReviewRepository {
	return &llmReviewRepository{
		DB: db,
	}
}

func (r *llmReviewRepository) Create(ctx context.Context, review *domain.LLMReview) error {
	query := `
		INSERT INTO llm_reviews (conference_id, proposal_id, stage, categories, summary, comment, translated_summary, translated_comment, vote, created_at, stage_diff, translated_stage_diff)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		review.ConferenceID, review.ProposalID, string(review.Stage), pq.Array(review.Categories),
		review.Summary, review.Comment, review.TranslatedSummary, review.TranslatedComment,
		string(review.Vote), review.CreatedAt, review.StageDiff, review.TranslatedStageDiff,
	).Scan(&review.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return domain.ErrConflict
			case "23503":
				// Review references a talk proposal that does not exist.
				return domain.ErrNotFound
			}
		}
		return err
	}
	return nil
}

const reviewColumns = `r.id, r.conference_id, r.proposal_id, r.stage, r.categories, r.summary, r.comment, r.translated_summary, r.translated_comment, r.vote, r.created_at, r.stage_diff, r.translated_stage_diff, p.title`

func scanReview(row interface{ Scan(...any) error }) (*domain.LLMReview, error) {
	review := &domain.LLMReview{}
	var stage, vote string
	err := row.Scan(
		&review.ID, &review.ConferenceID, &review.ProposalID, &stage, pq.Array(&review.Categories),
		&review.Summary, &review.Comment, &review.TranslatedSummary, &review.TranslatedComment,
		&vote, &review.CreatedAt, &review.StageDiff, &review.TranslatedStageDiff, &review.ProposalTitle,
	)
	if err != nil {
		return nil, err
	}
	review.Stage = domain.ReviewStage(stage)
	review.Vote = domain.ReviewVote(vote)
	return review, nil
}

func (r *llmReviewRepository) GetByID(ctx context.Context, conferenceID string, id int64) (*domain.LLMReview, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM llm_reviews r
		JOIN talk_proposals p ON p.id = r.proposal_id
		WHERE r.conference_id = $1 AND r.id = $2
	`
	review, err := scanReview(r.DB.QueryRowContext(ctx, query, conferenceID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (r *llmReviewRepository) ListByConference(ctx context.Context, conferenceID string, params domain.PaginationParams) ([]*domain.LLMReview, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM llm_reviews WHERE conference_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, conferenceID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM llm_reviews r
		JOIN talk_proposals p ON p.id = r.proposal_id
		WHERE r.conference_id = $1
		ORDER BY p.title, r.stage, r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	reviews := make([]*domain.LLMReview, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	return reviews, total, rows.Err()
}

func (r *llmReviewRepository) ListByProposal(ctx context.Context, conferenceID string, proposalID int64) ([]*domain.LLMReview, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM llm_reviews r
		JOIN talk_proposals p ON p.id = r.proposal_id
		WHERE r.conference_id = $1 AND r.proposal_id = $2
		ORDER BY p.title, r.stage, r.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]*domain.LLMReview, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *llmReviewRepository) Update(ctx context.Context, conferenceID string, id int64, u domain.LLMReviewUpdate) (*domain.LLMReview, error) {
	// created_at is immutable and deliberately absent from the SET clause.
	query := `
		UPDATE llm_reviews
		SET stage = $3, categories = $4, summary = $5, comment = $6, translated_summary = $7, translated_comment = $8, vote = $9, stage_diff = $10, translated_stage_diff = $11
		WHERE conference_id = $1 AND id = $2
		RETURNING id
	`
	var updatedID int64
	err := r.DB.QueryRowContext(ctx, query,
		conferenceID, id, string(u.Stage), pq.Array(u.Categories),
		u.Summary, u.Comment, u.TranslatedSummary, u.TranslatedComment,
		string(u.Vote), u.StageDiff, u.TranslatedStageDiff,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return r.GetByID(ctx, conferenceID, updatedID)
}

func (r *llmReviewRepository) Delete(ctx context.Context, conferenceID string, id int64) error {
	query := `DELETE FROM llm_reviews WHERE conference_id = $1 AND id = $2`
	result, err := r.DB.ExecContext(ctx, query, conferenceID, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
