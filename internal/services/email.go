package services

import (
	"context"
	"fmt"
	"log"

	"familyrelay/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendFamilyInvitation sends the family invitation email using the
// "family_invite" template and the given data.
func (s *emailService) SendFamilyInvitation(ctx context.Context, data *domain.FamilyInviteEmailData) error {
	if data == nil {
		return fmt.Errorf("family invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("family_invite", data)
	if err != nil {
		return fmt.Errorf("failed to render family_invite template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send family invitation email: %w", err)
	}
	log.Printf("[EMAIL] Family invitation sent to %s", data.Email)
	return nil
}
