package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// FamilyInviteEmailData holds data for the family invitation email sent when
// the invitee has no device token.
type FamilyInviteEmailData struct {
	Email        string
	InviterEmail string
	InviterName  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendFamilyInvitation(ctx context.Context, data *FamilyInviteEmailData) error
}
