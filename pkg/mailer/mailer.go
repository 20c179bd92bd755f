package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/XuanBac3105/do-an-server2-sub000/config"
)

// Message outgoing email
type Message struct {
	Email   string
	Subject string
	Content string // plain text body
	HTML    string // optional html alternative
}

// Sender delivers a single message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the configured mail backend
func New(cfg *config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("mailer: sendgrid_api_key is required")
		}
		return NewSendGridSender(cfg), nil
	case "console":
		return NewConsoleSender(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
