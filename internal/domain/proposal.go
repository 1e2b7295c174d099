package domain

import (
	"context"
	"fmt"
	"time"
)

// ProposalKind tags the concrete proposal variant. Polymorphic references to
// proposals are always a (kind, id) pair resolved per kind, never an untyped
// reference.
type ProposalKind string

const (
	ProposalKindTalk     ProposalKind = "talk"
	ProposalKindTutorial ProposalKind = "tutorial"
)

// ParseProposalKind parses a kind string (e.g. from a URL path segment).
func ParseProposalKind(s string) (ProposalKind, error) {
	switch ProposalKind(s) {
	case ProposalKindTalk:
		return ProposalKindTalk, nil
	case ProposalKindTutorial:
		return ProposalKindTutorial, nil
	}
	return "", fmt.Errorf("%w: unknown proposal kind %q", ErrInvalidInput, s)
}

// ProposalRef is a tagged reference to a proposal of either variant.
type ProposalRef struct {
	Kind ProposalKind `json:"kind"`
	ID   int64        `json:"id"`
}

// ObjectiveMaxLen bounds the objective field (display-width limit in the UI).
const ObjectiveMaxLen = 1000

// ProposalBase carries the fields and derived metrics shared by talk and
// tutorial proposals.
type ProposalBase struct {
	ID           int64  `json:"id"`
	ConferenceID string `json:"conference_id"`
	SubmitterID  string `json:"submitter_id"`

	Title               string `json:"title"`
	Abstract            string `json:"abstract"`
	DetailedDescription string `json:"detailed_description"`
	Outline             string `json:"outline"`
	Objective           string `json:"objective"`
	Supplementary       string `json:"supplementary"`
	Labels              string `json:"labels"`

	Cancelled bool `json:"cancelled"`
	// Accepted is tri-state: nil means undecided.
	Accepted *bool `json:"accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// mustFillFields returns the fields a submission must complete, in the order
// they are presented to the submitter.
func (b *ProposalBase) mustFillFields() []string {
	return []string{
		b.Abstract, b.Objective, b.Supplementary,
		b.DetailedDescription, b.Outline,
	}
}

// MustFillFieldsCount is the number of mandatory fields for a complete
// submission. Fixed by the field list above, so never zero.
func (b *ProposalBase) MustFillFieldsCount() int {
	return len(b.mustFillFields())
}

// FinishedFieldsCount counts mandatory fields holding a non-empty value.
func (b *ProposalBase) FinishedFieldsCount() int {
	count := 0
	for _, f := range b.mustFillFields() {
		if f != "" {
			count++
		}
	}
	return count
}

// FinishPercentage is the completion percentage with integer floor division:
// 3 of 5 fields is 60, never rounded up.
func (b *ProposalBase) FinishPercentage() int {
	return 100 * b.FinishedFieldsCount() / b.MustFillFieldsCount()
}

// UnfinishedFieldsCount is the number of mandatory fields still empty.
func (b *ProposalBase) UnfinishedFieldsCount() int {
	return b.MustFillFieldsCount() - b.FinishedFieldsCount()
}

// Proposal is the capability set shared by both variants.
type Proposal interface {
	Ref() ProposalRef
	Base() *ProposalBase
	// DurationValue returns the stored duration string; its allowed values
	// depend on the variant.
	DurationValue() string
}

// FirstTimeSpeakerChoices are the fixed display labels for the talk-only
// first_time_speaker flag.
var FirstTimeSpeakerChoices = map[bool]string{
	true:  "Yes, this is my first time speaking at this conference.",
	false: "No, I have given talks at this conference in the past.",
}

// TalkProposal is a talk submission. Duration is an open string validated
// against the configured duration choices at submission time.
// swagger:model TalkProposal
type TalkProposal struct {
	ProposalBase
	Duration         string `json:"duration"`
	FirstTimeSpeaker bool   `json:"first_time_speaker"`
}

func (p *TalkProposal) Ref() ProposalRef      { return ProposalRef{Kind: ProposalKindTalk, ID: p.ID} }
func (p *TalkProposal) Base() *ProposalBase   { return &p.ProposalBase }
func (p *TalkProposal) DurationValue() string { return p.Duration }

// FirstTimeSpeakerDisplay returns the display label for the flag.
func (p *TalkProposal) FirstTimeSpeakerDisplay() string {
	return FirstTimeSpeakerChoices[p.FirstTimeSpeaker]
}

// TutorialDuration is the only allowed tutorial duration.
const TutorialDuration = "1.5hr"

// TutorialProposal is a tutorial submission with a fixed duration.
// swagger:model TutorialProposal
type TutorialProposal struct {
	ProposalBase
	Duration string `json:"duration"`
}

func (p *TutorialProposal) Ref() ProposalRef {
	return ProposalRef{Kind: ProposalKindTutorial, ID: p.ID}
}
func (p *TutorialProposal) Base() *ProposalBase   { return &p.ProposalBase }
func (p *TutorialProposal) DurationValue() string { return p.Duration }

// ProposalURLResolver builds the canonical web UI URLs for a proposal.
// Implemented by the routing collaborator per variant tag and primary key.
type ProposalURLResolver interface {
	PeekURL(p Proposal) string
	UpdateURL(p Proposal) string
	CancelURL(p Proposal) string
	ManageSpeakersURL(p Proposal) string
	// RemoveSpeakerURL addresses the target speaker by their user's email.
	RemoveSpeakerURL(p Proposal, s Speaker) string
}

// TalkUpdate holds the updatable talk fields; nil means unchanged.
type TalkUpdate struct {
	Title               *string
	Abstract            *string
	DetailedDescription *string
	Outline             *string
	Objective           *string
	Supplementary       *string
	Labels              *string
	Duration            *string
	FirstTimeSpeaker    *bool
}

// TutorialUpdate holds the updatable tutorial fields; nil means unchanged.
type TutorialUpdate struct {
	Title               *string
	Abstract            *string
	DetailedDescription *string
	Outline             *string
	Objective           *string
	Supplementary       *string
	Labels              *string
}

// ProposalRepository defines storage for both proposal variants. Uniqueness
// and referential constraints live in the schema; conflicts surface as
// ErrConflict.
type ProposalRepository interface {
	CreateTalk(ctx context.Context, p *TalkProposal) error
	CreateTutorial(ctx context.Context, p *TutorialProposal) error
	// Get resolves a tagged reference to the concrete variant.
	Get(ctx context.Context, conferenceID string, ref ProposalRef) (Proposal, error)
	GetTalk(ctx context.Context, conferenceID string, id int64) (*TalkProposal, error)
	GetTutorial(ctx context.Context, conferenceID string, id int64) (*TutorialProposal, error)
	UpdateTalk(ctx context.Context, conferenceID string, id int64, u TalkUpdate) (*TalkProposal, error)
	UpdateTutorial(ctx context.Context, conferenceID string, id int64, u TutorialUpdate) (*TutorialProposal, error)
	SetCancelled(ctx context.Context, conferenceID string, ref ProposalRef, cancelled bool) error
	SetAccepted(ctx context.Context, conferenceID string, ref ProposalRef, accepted *bool) error

	// ListAccepted returns non-cancelled proposals with accepted = true.
	ListAccepted(ctx context.Context, conferenceID string, kind ProposalKind) ([]Proposal, error)
	// ListViewable returns proposals the user submitted or co-speaks on,
	// regardless of invitation status or cancellation of the co-speaker row.
	ListViewable(ctx context.Context, conferenceID string, kind ProposalKind, userID string) ([]Proposal, error)
	// ListReviewable returns all proposals except cancelled ones and those the
	// user submitted or co-speaks on.
	ListReviewable(ctx context.Context, conferenceID string, kind ProposalKind, userID string) ([]Proposal, error)
}

// SpeakerPrefetch carries caller-precomputed additional-speaker data so that
// speaker composition over many proposals does not issue one query each.
// Precedence: a non-nil Speakers list is used verbatim; otherwise a non-nil
// Count below one short-circuits the lookup; otherwise a fresh query runs.
type SpeakerPrefetch struct {
	Count    *int
	Speakers []*AdditionalSpeaker
}

// AcceptedProposal pairs an accepted proposal with its full speaker list.
type AcceptedProposal struct {
	Proposal Proposal
	Speakers []Speaker
}

// ProposalService defines the business logic for proposal submissions.
type ProposalService interface {
	SubmitTalk(ctx context.Context, p *TalkProposal) error
	SubmitTutorial(ctx context.Context, p *TutorialProposal) error
	Get(ctx context.Context, conferenceID string, ref ProposalRef) (Proposal, error)
	UpdateTalk(ctx context.Context, conferenceID string, id int64, callerID string, u TalkUpdate) (*TalkProposal, error)
	UpdateTutorial(ctx context.Context, conferenceID string, id int64, callerID string, u TutorialUpdate) (*TutorialProposal, error)
	Cancel(ctx context.Context, conferenceID string, ref ProposalRef, callerID string) error
	SetAccepted(ctx context.Context, conferenceID string, ref ProposalRef, accepted *bool) error

	// Speakers returns the primary speaker followed by the non-cancelled
	// additional speakers in storage order. pre may be nil.
	Speakers(ctx context.Context, p Proposal, pre *SpeakerPrefetch) ([]Speaker, error)
	// SpeakerCount returns 1 + the number of non-cancelled additional
	// speakers. A non-nil precomputed count is used instead of a query.
	SpeakerCount(ctx context.Context, p Proposal, precomputed *int) (int, error)

	ListAccepted(ctx context.Context, conferenceID string, kind ProposalKind) ([]Proposal, error)
	// ListAcceptedWithSpeakers resolves speakers for the whole accepted list
	// with a single bulk prefetch, not one query per proposal.
	ListAcceptedWithSpeakers(ctx context.Context, conferenceID string, kind ProposalKind) ([]*AcceptedProposal, error)
	ListViewable(ctx context.Context, conferenceID string, kind ProposalKind, userID string) ([]Proposal, error)
	ListReviewable(ctx context.Context, conferenceID string, kind ProposalKind, userID string) ([]Proposal, error)

	// TalkDurationLabel resolves a stored duration value to its display label
	// from the process-lifetime duration table.
	TalkDurationLabel(value string) string
}
