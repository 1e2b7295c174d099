package weburls

import (
	"fmt"
	"net/url"
	"strings"

	"talkproposals/internal/domain"
)

// resolver builds canonical frontend URLs for proposals. Paths are keyed by
// the proposal's kind and numeric ID, mirroring the web UI routing.
type resolver struct {
	base string
}

// NewResolver returns a ProposalURLResolver rooted at the given frontend base
// URL (e.g. "https://tw.pycon.org").
func NewResolver(baseURL string) domain.ProposalURLResolver {
	return &resolver{base: strings.TrimSuffix(baseURL, "/")}
}

func (r *resolver) proposalPath(p domain.Proposal, suffix string) string {
	ref := p.Ref()
	return fmt.Sprintf("%s/proposals/%s/%d/%s", r.base, ref.Kind, ref.ID, suffix)
}

func (r *resolver) PeekURL(p domain.Proposal) string {
	return r.proposalPath(p, "peek/")
}

func (r *resolver) UpdateURL(p domain.Proposal) string {
	return r.proposalPath(p, "update/")
}

func (r *resolver) CancelURL(p domain.Proposal) string {
	return r.proposalPath(p, "cancel/")
}

func (r *resolver) ManageSpeakersURL(p domain.Proposal) string {
	return r.proposalPath(p, "manage-speakers/")
}

// RemoveSpeakerURL addresses the speaker by their user's email in the query
// string, since the UI identifies co-speakers by email.
func (r *resolver) RemoveSpeakerURL(p domain.Proposal, s domain.Speaker) string {
	email := ""
	if u := s.SpeakerUser(); u != nil {
		email = u.Email
	}
	return r.proposalPath(p, "remove-speaker/") + "?email=" + url.QueryEscape(email)
}
