package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CospeakerInvitationEmailData holds data for the co-speaker invitation email.
type CospeakerInvitationEmailData struct {
	Email         string
	InviterName   string
	ProposalTitle string
	ProposalKind  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCospeakerInvitation(ctx context.Context, data *CospeakerInvitationEmailData) error
}
