package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"talkproposals/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	proposalRepo   domain.ProposalRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
}

func NewSpeakerService(speakerRepo domain.SpeakerRepository,
	proposalRepo domain.ProposalRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		proposalRepo:   proposalRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

func (s *speakerService) Invite(ctx context.Context, conferenceID string, ref domain.ProposalRef, inviterID, email string) (*domain.AdditionalSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	proposal, err := s.proposalRepo.Get(ctx, conferenceID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	if proposal.Base().SubmitterID != inviterID {
		return nil, domain.ErrForbidden
	}

	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if invitee.ID == proposal.Base().SubmitterID {
		// The submitter is already the primary speaker.
		return nil, domain.ErrInvalidInput
	}

	speaker := &domain.AdditionalSpeaker{
		ConferenceID: conferenceID,
		UserID:       invitee.ID,
		Proposal:     ref,
		Status:       domain.SpeakingStatusPending,
		Cancelled:    false,
		CreatedAt:    time.Now(),
		User:         invitee,
	}
	if err := s.speakerRepo.Create(ctx, speaker); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create additional speaker: %w", err)
	}

	inviter, err := s.userRepo.GetByID(ctx, inviterID)
	inviterName := ""
	if err == nil {
		inviterName = inviter.SpeakerName
	}
	data := &domain.CospeakerInvitationEmailData{
		Email:         invitee.Email,
		InviterName:   inviterName,
		ProposalTitle: proposal.Base().Title,
		ProposalKind:  string(ref.Kind),
	}
	// The invitation row exists either way; a failed email is logged, not fatal.
	if err := s.emailService.SendCospeakerInvitation(ctx, data); err != nil {
		log.Printf("[SPEAKER] Failed to send invitation email to %s: %v", invitee.Email, err)
	}

	return speaker, nil
}

func (s *speakerService) Respond(ctx context.Context, conferenceID string, speakerID int64, userID string, status domain.SpeakingStatus) (*domain.AdditionalSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if status != domain.SpeakingStatusAccepted && status != domain.SpeakingStatusDeclined {
		return nil, fmt.Errorf("%w: response must be %q or %q", domain.ErrInvalidInput, domain.SpeakingStatusAccepted, domain.SpeakingStatusDeclined)
	}

	speaker, err := s.speakerRepo.GetByID(ctx, conferenceID, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get additional speaker: %w", err)
	}
	if speaker.Cancelled {
		return nil, domain.ErrNotFound
	}
	if speaker.UserID != userID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.speakerRepo.SetStatus(ctx, conferenceID, speakerID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set speaking status: %w", err)
	}
	return updated, nil
}

func (s *speakerService) Remove(ctx context.Context, conferenceID string, speakerID int64, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := s.speakerRepo.GetByID(ctx, conferenceID, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get additional speaker: %w", err)
	}

	proposal, err := s.proposalRepo.Get(ctx, conferenceID, speaker.Proposal)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("get proposal: %w", err)
	}
	if proposal.Base().SubmitterID != callerID {
		return domain.ErrForbidden
	}

	if err := s.speakerRepo.SetCancelled(ctx, conferenceID, speakerID, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel additional speaker: %w", err)
	}
	return nil
}
