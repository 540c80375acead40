package email

import (
	"context"
	"errors"
	"time"
)

// Propósitos de envío de códigos.
const (
	PurposeSecondFactor      = "second_factor"
	PurposeEmailVerification = "email_verification"
)

// Sender es el canal fuera de banda por el que viajan los códigos.
// El código nunca debe aparecer en respuestas visibles al usuario.
type Sender interface {
	SendLoginCode(ctx context.Context, toEmail, code, purpose string, expiresAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendLoginCode(_ context.Context, _, _, _ string, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
