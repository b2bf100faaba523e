package mailer

import (
	"context"
	"fmt"

	"tuinue/pkg/types"

	"github.com/wneessen/go-mail"
)

// Mailer sends lifecycle notifications. Delivery is fire-and-forget:
// callers run sends on a goroutine and only log failures.
type Mailer interface {
	SendCharityThankYou(ctx context.Context, charity *types.Charity) error
	SendCharityApproved(ctx context.Context, charity *types.Charity) error
	SendCharityRejected(ctx context.Context, charity *types.Charity) error
	SendMonthlyReminder(ctx context.Context, donor *types.Donor) error
}

type SMTPMailer struct {
	client *mail.Client
	sender string
}

func NewSMTPMailer(config *types.Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(
		config.SMTPHost,
		mail.WithPort(config.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(config.SMTPUsername),
		mail.WithPassword(config.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		sender: config.MailSender,
	}, nil
}

func (m *SMTPMailer) SendCharityThankYou(ctx context.Context, charity *types.Charity) error {
	body := "Welcome to Tuinue Wasichana Charity Platform and thank you for registering. Your registration is pending approval."
	return m.send(ctx, charity.Email, "Thank You for Registering", body)
}

func (m *SMTPMailer) SendCharityApproved(ctx context.Context, charity *types.Charity) error {
	body := fmt.Sprintf("Congratulations! Your charity '%s' has been approved.", charity.Name)
	return m.send(ctx, charity.Email, "Your Charity Has Been Approved", body)
}

func (m *SMTPMailer) SendCharityRejected(ctx context.Context, charity *types.Charity) error {
	body := fmt.Sprintf("We regret to inform you that your charity '%s' has been rejected.", charity.Name)
	return m.send(ctx, charity.Email, "Your Charity Has Been Rejected", body)
}

func (m *SMTPMailer) SendMonthlyReminder(ctx context.Context, donor *types.Donor) error {
	body := "Do not forget to make your monthly donation!"
	return m.send(ctx, donor.Email, "Monthly Donation Reminder", body)
}

func (m *SMTPMailer) send(ctx context.Context, recipient, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}

	return nil
}
