package domain

import (
	"context"
	"fmt"
	"time"
)

// ReviewStage identifies which review round a record belongs to.
type ReviewStage string

const (
	ReviewStage1 ReviewStage = "S1"
	ReviewStage2 ReviewStage = "S2"
)

// ParseReviewStage validates a stage token.
func ParseReviewStage(s string) (ReviewStage, error) {
	switch ReviewStage(s) {
	case ReviewStage1, ReviewStage2:
		return ReviewStage(s), nil
	}
	return "", fmt.Errorf("%w: unknown review stage %q", ErrInvalidInput, s)
}

// ReviewVote is the four-token verdict scale.
type ReviewVote string

const (
	ReviewVoteStrongReject ReviewVote = "-1"
	ReviewVoteWeakReject   ReviewVote = "-0"
	ReviewVoteWeakAccept   ReviewVote = "+0"
	ReviewVoteStrongAccept ReviewVote = "+1"
)

// ParseReviewVote validates a vote token.
func ParseReviewVote(s string) (ReviewVote, error) {
	switch ReviewVote(s) {
	case ReviewVoteStrongReject, ReviewVoteWeakReject, ReviewVoteWeakAccept, ReviewVoteStrongAccept:
		return ReviewVote(s), nil
	}
	return "", fmt.Errorf("%w: unknown vote %q", ErrInvalidInput, s)
}

// MaxReviewCategories bounds the category tags on a single review.
const MaxReviewCategories = 3

// LLMReview is an AI-generated review of a talk proposal for one stage.
// Rows are created by the external generation process; at most one exists per
// (proposal, stage) pair. CreatedAt is immutable after creation.
// swagger:model LLMReview
type LLMReview struct {
	ID           int64       `json:"id"`
	ConferenceID string      `json:"conference_id"`
	ProposalID   int64       `json:"proposal_id"`
	Stage        ReviewStage `json:"stage"`
	Categories   []string    `json:"categories"`

	Summary           string `json:"summary"`
	Comment           string `json:"comment"`
	TranslatedSummary string `json:"translated_summary"`
	TranslatedComment string `json:"translated_comment"`

	Vote      ReviewVote `json:"vote"`
	CreatedAt time.Time  `json:"created_at"`

	StageDiff           string `json:"stage_diff"`
	TranslatedStageDiff string `json:"translated_stage_diff"`

	// ProposalTitle is joined from the talk proposal when listing.
	ProposalTitle string `json:"proposal_title,omitempty"`
}

// LLMReviewUpdate holds the mutable review fields for a full update.
// CreatedAt is deliberately absent.
type LLMReviewUpdate struct {
	Stage               ReviewStage
	Categories          []string
	Summary             string
	Comment             string
	TranslatedSummary   string
	TranslatedComment   string
	Vote                ReviewVote
	StageDiff           string
	TranslatedStageDiff string
}

// LLMReviewRepository defines storage for review records. The (proposal,
// stage) uniqueness constraint lives in the schema and surfaces as
// ErrConflict. Listings order by proposal title, stage, creation time
// descending.
type LLMReviewRepository interface {
	Create(ctx context.Context, r *LLMReview) error
	GetByID(ctx context.Context, conferenceID string, id int64) (*LLMReview, error)
	ListByConference(ctx context.Context, conferenceID string, params PaginationParams) ([]*LLMReview, int, error)
	ListByProposal(ctx context.Context, conferenceID string, proposalID int64) ([]*LLMReview, error)
	Update(ctx context.Context, conferenceID string, id int64, u LLMReviewUpdate) (*LLMReview, error)
	Delete(ctx context.Context, conferenceID string, id int64) error
}

// LLMReviewService defines the storage-facing operations exposed to the
// review generation process and the programme team.
type LLMReviewService interface {
	Record(ctx context.Context, r *LLMReview) error
	GetByID(ctx context.Context, conferenceID string, id int64) (*LLMReview, error)
	List(ctx context.Context, conferenceID string, params PaginationParams) ([]*LLMReview, int, error)
	ListByProposal(ctx context.Context, conferenceID string, proposalID int64) ([]*LLMReview, error)
	Update(ctx context.Context, conferenceID string, id int64, u LLMReviewUpdate) (*LLMReview, error)
	Delete(ctx context.Context, conferenceID string, id int64) error
}
