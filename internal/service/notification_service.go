package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/texnomart/catalog_api/internal/config"
)

// StaffEmailLister provides the recipient list for product creation mail.
type StaffEmailLister interface {
	GetStaffSuperuserEmails() ([]string, error)
}

// MailSender sends prepared messages. Satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NotificationService sends best-effort creation notifications over SMTP.
// Delivery failures are logged and swallowed; they never fail the triggering
// request.
type NotificationService struct {
	cfg    config.MailConfig
	users  StaffEmailLister
	sender MailSender
}

// NewNotificationService creates a NotificationService. When SMTP is not
// configured, all notifications become no-ops.
func NewNotificationService(cfg config.MailConfig, users StaffEmailLister) *NotificationService {
	svc := &NotificationService{cfg: cfg, users: users}
	if cfg.Enabled() {
		svc.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return svc
}

// ProductCreated notifies staff superusers that a product was created.
func (s *NotificationService) ProductCreated(name string) {
	if s.sender == nil {
		return
	}

	recipients, err := s.users.GetStaffSuperuserEmails()
	if err != nil {
		log.Error().Err(err).Msg("failed to load notification recipients")
		return
	}
	if len(recipients) == 0 {
		return
	}

	s.send(recipients, "Welcome to Texnomart!",
		fmt.Sprintf("Product %s has been created recently.", name))
}

// CategoryCreated notifies the configured recipient that a category was
// created.
func (s *NotificationService) CategoryCreated(title string) {
	if s.sender == nil || s.cfg.CategoryNotifyTo == "" {
		return
	}

	s.send([]string{s.cfg.CategoryNotifyTo}, "Welcome to Texnomart!",
		fmt.Sprintf("Category %s has been created recently.", title))
}

func (s *NotificationService) send(to []string, subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.sender.DialAndSend(m); err != nil {
		log.Error().Err(err).Strs("to", to).Msg("failed to send notification email")
	}
}
