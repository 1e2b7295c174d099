package domain

import (
	"context"
	"fmt"
	"time"
)

// SpeakingStatus is the state of a co-speaker invitation.
type SpeakingStatus string

const (
	SpeakingStatusPending  SpeakingStatus = "pending"
	SpeakingStatusAccepted SpeakingStatus = "accepted"
	SpeakingStatusDeclined SpeakingStatus = "declined"
)

// Display returns the human-readable label for the status.
func (s SpeakingStatus) Display() string {
	switch s {
	case SpeakingStatusPending:
		return "Pending"
	case SpeakingStatusAccepted:
		return "Accepted"
	case SpeakingStatusDeclined:
		return "Declined"
	}
	return string(s)
}

// Speaker is the read-only surface shared by the proposal submitter and its
// additional speakers, so both can be listed uniformly.
type Speaker interface {
	SpeakerUser() *User
	ProposalRef() ProposalRef
	IsCancelled() bool
	StatusDisplay() string
}

// AdditionalSpeaker is a co-speaker invitation on a proposal of either
// variant. At most one row may exist per (user, proposal kind, proposal id).
// swagger:model AdditionalSpeaker
type AdditionalSpeaker struct {
	ID           int64          `json:"id"`
	ConferenceID string         `json:"conference_id"`
	UserID       string         `json:"user_id"`
	Proposal     ProposalRef    `json:"proposal"`
	Status       SpeakingStatus `json:"status"`
	Cancelled    bool           `json:"cancelled"`
	CreatedAt    time.Time      `json:"created_at"`

	// User is the joined account record when loaded with user data.
	User *User `json:"user,omitempty"`
}

func (a *AdditionalSpeaker) SpeakerUser() *User      { return a.User }
func (a *AdditionalSpeaker) ProposalRef() ProposalRef { return a.Proposal }
func (a *AdditionalSpeaker) IsCancelled() bool       { return a.Cancelled }
func (a *AdditionalSpeaker) StatusDisplay() string   { return a.Status.Display() }

// PrimarySpeaker exposes the submitter of a proposal through the Speaker
// interface. It is never persisted and is never cancelled.
type PrimarySpeaker struct {
	user *User
	ref  ProposalRef
}

// NewPrimarySpeaker wraps a proposal's submitter. At least one of proposal and
// user must be given; the wrapper is meaningless without an identity to derive
// the other, so passing neither fails immediately. When user is nil the
// submitter is represented by their account ID alone.
func NewPrimarySpeaker(proposal Proposal, user *User) (PrimarySpeaker, error) {
	if proposal == nil && user == nil {
		return PrimarySpeaker{}, fmt.Errorf("%w: must specify either proposal or user", ErrInvalidInput)
	}
	s := PrimarySpeaker{user: user}
	if proposal != nil {
		s.ref = proposal.Ref()
		if s.user == nil {
			s.user = &User{ID: proposal.Base().SubmitterID}
		}
	}
	return s, nil
}

func (s PrimarySpeaker) SpeakerUser() *User       { return s.user }
func (s PrimarySpeaker) ProposalRef() ProposalRef { return s.ref }
func (s PrimarySpeaker) IsCancelled() bool        { return false }
func (s PrimarySpeaker) StatusDisplay() string    { return "Proposal author" }

// Equal reports whether both wrappers represent the same user on the same
// proposal.
func (s PrimarySpeaker) Equal(other PrimarySpeaker) bool {
	if s.ref != other.ref {
		return false
	}
	switch {
	case s.user == nil && other.user == nil:
		return true
	case s.user == nil || other.user == nil:
		return false
	}
	return s.user.ID == other.user.ID
}

// ComposeSpeakers returns the primary speaker followed by the non-cancelled
// additional speakers, preserving the given order. The primary is always
// present and first; cancelled additional speakers never appear.
func ComposeSpeakers(primary PrimarySpeaker, additionals []*AdditionalSpeaker) []Speaker {
	speakers := make([]Speaker, 0, len(additionals)+1)
	speakers = append(speakers, primary)
	for _, a := range additionals {
		if a.Cancelled {
			continue
		}
		speakers = append(speakers, a)
	}
	return speakers
}

// SpeakerRepository defines storage for co-speaker invitations.
type SpeakerRepository interface {
	// Create inserts a pending invitation. A duplicate (user, proposal) pair
	// surfaces as ErrConflict.
	Create(ctx context.Context, s *AdditionalSpeaker) error
	GetByID(ctx context.Context, conferenceID string, id int64) (*AdditionalSpeaker, error)
	// ListActiveByProposal returns non-cancelled rows with user data joined,
	// ordered by (proposal kind, proposal id, insertion id).
	ListActiveByProposal(ctx context.Context, conferenceID string, ref ProposalRef) ([]*AdditionalSpeaker, error)
	CountActiveByProposal(ctx context.Context, conferenceID string, ref ProposalRef) (int, error)
	// ListActiveByProposals prefetches non-cancelled rows for many proposals
	// of one kind in a single query, keyed by proposal ID.
	ListActiveByProposals(ctx context.Context, conferenceID string, kind ProposalKind, ids []int64) (map[int64][]*AdditionalSpeaker, error)
	SetStatus(ctx context.Context, conferenceID string, id int64, status SpeakingStatus) (*AdditionalSpeaker, error)
	SetCancelled(ctx context.Context, conferenceID string, id int64, cancelled bool) error
}

// SpeakerService defines the business logic for co-speaker management.
type SpeakerService interface {
	// Invite invites the user with the given email as a co-speaker. Only the
	// proposal submitter may invite; the invitee receives an email.
	Invite(ctx context.Context, conferenceID string, ref ProposalRef, inviterID, email string) (*AdditionalSpeaker, error)
	// Respond lets the invited user accept or decline their invitation.
	Respond(ctx context.Context, conferenceID string, speakerID int64, userID string, status SpeakingStatus) (*AdditionalSpeaker, error)
	// Remove soft-deletes the invitation. Only the proposal submitter may
	// remove a co-speaker.
	Remove(ctx context.Context, conferenceID string, speakerID int64, callerID string) error
}
