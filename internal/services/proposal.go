package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"talkproposals/internal/domain"
)

type proposalService struct {
	proposalRepo domain.ProposalRepository
	speakerRepo  domain.SpeakerRepository
	// talkDurations maps allowed duration values to display labels. Loaded
	// once at startup from configuration and shared by reference.
	talkDurations  map[string]string
	contextTimeout time.Duration
}

func NewProposalService(proposalRepo domain.ProposalRepository,
	speakerRepo domain.SpeakerRepository,
	talkDurations map[string]string,
	timeout time.Duration,
) domain.ProposalService {
	return &proposalService{
		proposalRepo:   proposalRepo,
		speakerRepo:    speakerRepo,
		talkDurations:  talkDurations,
		contextTimeout: timeout,
	}
}

func (s *proposalService) validateBase(b *domain.ProposalBase) error {
	if b.SubmitterID == "" {
		return fmt.Errorf("%w: submitter is required", domain.ErrInvalidInput)
	}
	if b.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(b.Objective) > domain.ObjectiveMaxLen {
		return fmt.Errorf("%w: objective exceeds %d characters", domain.ErrInvalidInput, domain.ObjectiveMaxLen)
	}
	return nil
}

func (s *proposalService) validateTalkDuration(duration string) error {
	if _, ok := s.talkDurations[duration]; !ok {
		return fmt.Errorf("%w: unknown talk duration %q", domain.ErrInvalidInput, duration)
	}
	return nil
}

func (s *proposalService) SubmitTalk(ctx context.Context, p *domain.TalkProposal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validateBase(&p.ProposalBase); err != nil {
		return err
	}
	if err := s.validateTalkDuration(p.Duration); err != nil {
		return err
	}

	p.Cancelled = false
	p.Accepted = nil
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	if err := s.proposalRepo.CreateTalk(ctx, p); err != nil {
		return fmt.Errorf("create talk proposal: %w", err)
	}
	return nil
}

func (s *proposalService) SubmitTutorial(ctx context.Context, p *domain.TutorialProposal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validateBase(&p.ProposalBase); err != nil {
		return err
	}
	// Tutorials have a single fixed duration.
	if p.Duration == "" {
		p.Duration = domain.TutorialDuration
	}
	if p.Duration != domain.TutorialDuration {
		return fmt.Errorf("%w: tutorial duration must be %q", domain.ErrInvalidInput, domain.TutorialDuration)
	}

	p.Cancelled = false
	p.Accepted = nil
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	if err := s.proposalRepo.CreateTutorial(ctx, p); err != nil {
		return fmt.Errorf("create tutorial proposal: %w", err)
	}
	return nil
}

func (s *proposalService) Get(ctx context.Context, conferenceID string, ref domain.ProposalRef) (domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.proposalRepo.Get(ctx, conferenceID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

func (s *proposalService) UpdateTalk(ctx context.Context, conferenceID string, id int64, callerID string, u domain.TalkUpdate) (*domain.TalkProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.proposalRepo.GetTalk(ctx, conferenceID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get talk proposal: %w", err)
	}
	if current.SubmitterID != callerID {
		return nil, domain.ErrForbidden
	}
	if u.Objective != nil && utf8.RuneCountInString(*u.Objective) > domain.ObjectiveMaxLen {
		return nil, fmt.Errorf("%w: objective exceeds %d characters", domain.ErrInvalidInput, domain.ObjectiveMaxLen)
	}
	if u.Duration != nil {
		if err := s.validateTalkDuration(*u.Duration); err != nil {
			return nil, err
		}
	}
	updated, err := s.proposalRepo.UpdateTalk(ctx, conferenceID, id, u)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update talk proposal: %w", err)
	}
	return updated, nil
}

func (s *proposalService) UpdateTutorial(ctx context.Context, conferenceID string, id int64, callerID string, u domain.TutorialUpdate) (*domain.TutorialProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.proposalRepo.GetTutorial(ctx, conferenceID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tutorial proposal: %w", err)
	}
	if current.SubmitterID != callerID {
		return nil, domain.ErrForbidden
	}
	if u.Objective != nil && utf8.RuneCountInString(*u.Objective) > domain.ObjectiveMaxLen {
		return nil, fmt.Errorf("%w: objective exceeds %d characters", domain.ErrInvalidInput, domain.ObjectiveMaxLen)
	}
	updated, err := s.proposalRepo.UpdateTutorial(ctx, conferenceID, id, u)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update tutorial proposal: %w", err)
	}
	return updated, nil
}

func (s *proposalService) Cancel(ctx context.Context, conferenceID string, ref domain.ProposalRef, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.proposalRepo.Get(ctx, conferenceID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("get proposal: %w", err)
	}
	if p.Base().SubmitterID != callerID {
		return domain.ErrForbidden
	}
	if err := s.proposalRepo.SetCancelled(ctx, conferenceID, ref, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel proposal: %w", err)
	}
	return nil
}

func (s *proposalService) SetAccepted(ctx context.Context, conferenceID string, ref domain.ProposalRef, accepted *bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.proposalRepo.SetAccepted(ctx, conferenceID, ref, accepted); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("set accepted: %w", err)
	}
	return nil
}

// Speakers yields the primary speaker first, then the non-cancelled
// additional speakers in storage order. When pre carries a precomputed list
// it is used verbatim; when it carries a count below one the lookup is
// skipped entirely. Callers iterating many proposals should prefetch with
// SpeakerRepository.ListActiveByProposals and pass the slices here, so the
// whole iteration costs two queries instead of one per proposal.
func (s *proposalService) Speakers(ctx context.Context, p domain.Proposal, pre *domain.SpeakerPrefetch) ([]domain.Speaker, error) {
	primary, err := domain.NewPrimarySpeaker(p, nil)
	if err != nil {
		return nil, err
	}

	if pre != nil {
		if pre.Speakers != nil {
			return domain.ComposeSpeakers(primary, pre.Speakers), nil
		}
		if pre.Count != nil && *pre.Count < 1 {
			return domain.ComposeSpeakers(primary, nil), nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	additionals, err := s.speakerRepo.ListActiveByProposal(ctx, p.Base().ConferenceID, p.Ref())
	if err != nil {
		return nil, fmt.Errorf("list additional speakers: %w", err)
	}
	return domain.ComposeSpeakers(primary, additionals), nil
}

// SpeakerCount returns 1 + the number of non-cancelled additional speakers.
// A non-nil precomputed count replaces the repository query.
func (s *proposalService) SpeakerCount(ctx context.Context, p domain.Proposal, precomputed *int) (int, error) {
	if precomputed != nil {
		return *precomputed + 1, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.speakerRepo.CountActiveByProposal(ctx, p.Base().ConferenceID, p.Ref())
	if err != nil {
		return 0, fmt.Errorf("count additional speakers: %w", err)
	}
	return count + 1, nil
}

func (s *proposalService) ListAccepted(ctx context.Context, conferenceID string, kind domain.ProposalKind) ([]domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.proposalRepo.ListAccepted(ctx, conferenceID, kind)
}

// ListAcceptedWithSpeakers loads the accepted list and resolves every
// proposal's speakers from one bulk prefetch, so the whole listing costs two
// queries regardless of its length.
func (s *proposalService) ListAcceptedWithSpeakers(ctx context.Context, conferenceID string, kind domain.ProposalKind) ([]*domain.AcceptedProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	proposals, err := s.proposalRepo.ListAccepted(ctx, conferenceID, kind)
	if err != nil {
		return nil, fmt.Errorf("list accepted proposals: %w", err)
	}

	ids := make([]int64, 0, len(proposals))
	for _, p := range proposals {
		ids = append(ids, p.Ref().ID)
	}
	byProposal := map[int64][]*domain.AdditionalSpeaker{}
	if len(ids) > 0 {
		byProposal, err = s.speakerRepo.ListActiveByProposals(ctx, conferenceID, kind, ids)
		if err != nil {
			return nil, fmt.Errorf("prefetch additional speakers: %w", err)
		}
	}

	out := make([]*domain.AcceptedProposal, 0, len(proposals))
	for _, p := range proposals {
		additionals := byProposal[p.Ref().ID]
		if additionals == nil {
			additionals = []*domain.AdditionalSpeaker{}
		}
		speakers, err := s.Speakers(ctx, p, &domain.SpeakerPrefetch{Speakers: additionals})
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.AcceptedProposal{Proposal: p, Speakers: speakers})
	}
	return out, nil
}

func (s *proposalService) ListViewable(ctx context.Context, conferenceID string, kind domain.ProposalKind, userID string) ([]domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.proposalRepo.ListViewable(ctx, conferenceID, kind, userID)
}

func (s *proposalService) ListReviewable(ctx context.Context, conferenceID string, kind domain.ProposalKind, userID string) ([]domain.Proposal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.proposalRepo.ListReviewable(ctx, conferenceID, kind, userID)
}

func (s *proposalService) TalkDurationLabel(value string) string {
	return s.talkDurations[value]
}
