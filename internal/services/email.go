package services

import (
	"context"
	"fmt"
	"log"

	"talkproposals/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendCospeakerInvitation sends the co-speaker invitation email using the
// "cospeaker_invitation" template and the given data.
func (s *emailService) SendCospeakerInvitation(ctx context.Context, data *domain.CospeakerInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("cospeaker invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("cospeaker_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render cospeaker_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send cospeaker invitation email: %w", err)
	}
	log.Printf("[EMAIL] Co-speaker invitation sent to %s", data.Email)
	return nil
}
