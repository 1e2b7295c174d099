package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talkproposals/internal/domain"
)

type llmReviewService struct {
	reviewRepo domain.LLMReviewRepository
	// categories maps allowed category codes to display labels. Loaded once
	// at startup from configuration and shared by reference.
	categories     map[string]string
	contextTimeout time.Duration
}

func NewLLMReviewService(reviewRepo domain.LLMReviewRepository,
	categories map[string]string,
	timeout time.Duration,
) domain.LLMReviewService {
	return &llmReviewService{
		reviewRepo:     reviewRepo,
		categories:     categories,
		contextTimeout: timeout,
	}
}

func (s *llmReviewService) validate(stage domain.ReviewStage, vote domain.ReviewVote, categories []string) error {
	if _, err := domain.ParseReviewStage(string(stage)); err != nil {
		return err
	}
	if _, err := domain.ParseReviewVote(string(vote)); err != nil {
		return err
	}
	if len(categories) > domain.MaxReviewCategories {
		return fmt.Errorf("%w: at most %d categories", domain.ErrInvalidInput, domain.MaxReviewCategories)
	}
	for _, c := range categories {
		if _, ok := s.categories[c]; !ok {
			return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, c)
		}
	}
	return nil
}

func (s *llmReviewService) Record(ctx context.Context, r *domain.LLMReview) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if r.ProposalID == 0 {
		return fmt.Errorf("%w: proposal is required", domain.ErrInvalidInput)
	}
	if err := s.validate(r.Stage, r.Vote, r.Categories); err != nil {
		return err
	}
	if r.Categories == nil {
		r.Categories = []string{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	if err := s.reviewRepo.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("create llm review: %w", err)
	}
	return nil
}

func (s *llmReviewService) GetByID(ctx context.Context, conferenceID string, id int64) (*domain.LLMReview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	review, err := s.reviewRepo.GetByID(ctx, conferenceID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get llm review: %w", err)
	}
	return review, nil
}

func (s *llmReviewService) List(ctx context.Context, conferenceID string, params domain.PaginationParams) ([]*domain.LLMReview, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if params.PageSize < 1 {
		params.PageSize = 20
	}
	reviews, total, err := s.reviewRepo.ListByConference(ctx, conferenceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list llm reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *llmReviewService) ListByProposal(ctx context.Context, conferenceID string, proposalID int64) ([]*domain.LLMReview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reviews, err := s.reviewRepo.ListByProposal(ctx, conferenceID, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list llm reviews by proposal: %w", err)
	}
	return reviews, nil
}

func (s *llmReviewService) Update(ctx context.Context, conferenceID string, id int64, u domain.LLMReviewUpdate) (*domain.LLMReview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validate(u.Stage, u.Vote, u.Categories); err != nil {
		return nil, err
	}
	if u.Categories == nil {
		u.Categories = []string{}
	}

	updated, err := s.reviewRepo.Update(ctx, conferenceID, id, u)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update llm review: %w", err)
	}
	return updated, nil
}

func (s *llmReviewService) Delete(ctx context.Context, conferenceID string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.reviewRepo.Delete(ctx, conferenceID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete llm review: %w", err)
	}
	return nil
}
