package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"talkproposals/internal/domain"
)

var testReviewCategories = map[string]string{
	"CORE": "Python Core",
	"WEB":  "Web Frameworks",
	"ML":   "Machine Learning",
	"DATA": "Data Processing",
}

type mockLLMReviewRepository struct {
	reviews   map[int64]*domain.LLMReview
	createErr error
	err       error

	created    *domain.LLMReview
	listParams *domain.PaginationParams
}

func (m *mockLLMReviewRepository) Create(ctx context.Context, r *domain.LLMReview) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = 1
	m.created = r
	return nil
}

func (m *mockLLMReviewRepository) GetByID(ctx context.Context, conferenceID string, id int64) (*domain.LLMReview, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockLLMReviewRepository) ListByConference(ctx context.Context, conferenceID string, params domain.PaginationParams) ([]*domain.LLMReview, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.listParams = &params
	return nil, 0, nil
}

func (m *mockLLMReviewRepository) ListByProposal(ctx context.Context, conferenceID string, proposalID int64) ([]*domain.LLMReview, error) {
	return nil, m.err
}

func (m *mockLLMReviewRepository) Update(ctx context.Context, conferenceID string, id int64, u domain.LLMReviewUpdate) (*domain.LLMReview, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Stage = u.Stage
	r.Vote = u.Vote
	r.Categories = u.Categories
	return r, nil
}

func (m *mockLLMReviewRepository) Delete(ctx context.Context, conferenceID string, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func newTestReviewService(repo *mockLLMReviewRepository) *llmReviewService {
	return &llmReviewService{
		reviewRepo:     repo,
		categories:     testReviewCategories,
		contextTimeout: 2 * time.Second,
	}
}

func TestLLMReviewService_Record(t *testing.T) {
	valid := func() *domain.LLMReview {
		return &domain.LLMReview{
			ConferenceID: "c1",
			ProposalID:   1,
			Stage:        domain.ReviewStage1,
			Vote:         domain.ReviewVoteStrongAccept,
			Categories:   []string{"CORE", "WEB"},
			Summary:      "Solid proposal.",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *domain.LLMReview)
		repoErr error
		wantErr error
	}{
		{name: "success"},
		{
			name:    "missing proposal",
			mutate:  func(r *domain.LLMReview) { r.ProposalID = 0 },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown stage",
			mutate:  func(r *domain.LLMReview) { r.Stage = "S3" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown vote",
			mutate:  func(r *domain.LLMReview) { r.Vote = "+2" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "too many categories",
			mutate:  func(r *domain.LLMReview) { r.Categories = []string{"CORE", "WEB", "ML", "DATA"} },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown category",
			mutate:  func(r *domain.LLMReview) { r.Categories = []string{"NOPE"} },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "duplicate stage conflicts",
			repoErr: domain.ErrConflict,
			wantErr: domain.ErrConflict,
		},
		{
			name:    "dangling proposal",
			repoErr: domain.ErrNotFound,
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLLMReviewRepository{createErr: tt.repoErr}
			svc := newTestReviewService(repo)

			r := valid()
			if tt.mutate != nil {
				tt.mutate(r)
			}
			err := svc.Record(context.Background(), r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.created == nil {
				t.Fatal("expected review to be created")
			}
			if repo.created.CreatedAt.IsZero() {
				t.Error("expected creation time to be set")
			}
		})
	}
}

func TestLLMReviewService_List(t *testing.T) {
	t.Run("defaults page size", func(t *testing.T) {
		repo := &mockLLMReviewRepository{}
		svc := newTestReviewService(repo)

		_, _, err := svc.List(context.Background(), "c1", domain.PaginationParams{Page: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.listParams == nil || repo.listParams.PageSize != 20 {
			t.Fatalf("expected default page size 20, got %+v", repo.listParams)
		}
	})

	t.Run("keeps explicit page size", func(t *testing.T) {
		repo := &mockLLMReviewRepository{}
		svc := newTestReviewService(repo)

		_, _, err := svc.List(context.Background(), "c1", domain.PaginationParams{Page: 2, PageSize: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.listParams.PageSize != 5 {
			t.Fatalf("expected page size 5, got %d", repo.listParams.PageSize)
		}
	})
}

func TestLLMReviewService_Update(t *testing.T) {
	repo := &mockLLMReviewRepository{
		reviews: map[int64]*domain.LLMReview{
			1: {ID: 1, ConferenceID: "c1", ProposalID: 1, Stage: domain.ReviewStage1, Vote: domain.ReviewVoteWeakAccept},
		},
	}
	svc := newTestReviewService(repo)

	t.Run("success", func(t *testing.T) {
		got, err := svc.Update(context.Background(), "c1", 1, domain.LLMReviewUpdate{
			Stage:      domain.ReviewStage2,
			Vote:       domain.ReviewVoteStrongAccept,
			Categories: []string{"ML"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Stage != domain.ReviewStage2 || got.Vote != domain.ReviewVoteStrongAccept {
			t.Errorf("unexpected update result: %+v", got)
		}
	})

	t.Run("invalid vote", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "c1", 1, domain.LLMReviewUpdate{
			Stage: domain.ReviewStage1,
			Vote:  "yes",
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "c1", 99, domain.LLMReviewUpdate{
			Stage: domain.ReviewStage1,
			Vote:  domain.ReviewVoteWeakReject,
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLLMReviewService_Delete(t *testing.T) {
	repo := &mockLLMReviewRepository{
		reviews: map[int64]*domain.LLMReview{1: {ID: 1}},
	}
	svc := newTestReviewService(repo)

	if err := svc.Delete(context.Background(), "c1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "c1", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
