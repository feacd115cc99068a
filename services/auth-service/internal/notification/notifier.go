package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sender delivers an HTML email. *mailer.Mailer satisfies it.
type Sender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// Notifier dispatches account emails. Delivery is best-effort: methods never
// fail, undelivered mail is logged instead.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration)
	SendWelcomeEmail(ctx context.Context, to, name string)
	SendPasswordResetEmail(ctx context.Context, to, resetURL string, expiresIn time.Duration)
	SendResetSuccessEmail(ctx context.Context, to string)
}

type emailNotifier struct {
	sender       Sender
	dashboardURL string
	logger       *zerolog.Logger
}

// NewEmailNotifier creates a Notifier. A nil sender disables delivery and
// only logs what would have been sent.
func NewEmailNotifier(sender Sender, dashboardURL string, logger *zerolog.Logger) Notifier {
	return &emailNotifier{
		sender:       sender,
		dashboardURL: dashboardURL,
		logger:       logger,
	}
}

func (n *emailNotifier) SendVerificationEmail(ctx context.Context, to, code string, expiresIn time.Duration) {
	body := VerificationTemplate.Render(map[string]string{
		placeholderVerificationCode: code,
		placeholderExpiresIn:        formatLifetime(expiresIn),
	})

	if err := n.send(to, VerificationTemplate.Subject, body); err != nil {
		// The code is logged so the account can still be verified without mail.
		n.log(ctx).Warn().
			Err(err).
			Str("email", to).
			Str("verification_code", code).
			Dur("expires_in", expiresIn).
			Msg("verification email not sent")
		return
	}

	n.log(ctx).Info().Str("email", to).Msg("verification email sent")
}

func (n *emailNotifier) SendWelcomeEmail(ctx context.Context, to, name string) {
	body := WelcomeTemplate.Render(map[string]string{
		placeholderName:         name,
		placeholderDashboardURL: n.dashboardURL,
	})

	if err := n.send(to, WelcomeTemplate.Subject, body); err != nil {
		n.log(ctx).Warn().Err(err).Str("email", to).Msg("welcome email skipped")
		return
	}

	n.log(ctx).Info().Str("email", to).Msg("welcome email sent")
}

func (n *emailNotifier) SendPasswordResetEmail(ctx context.Context, to, resetURL string, expiresIn time.Duration) {
	body := PasswordResetRequestTemplate.Render(map[string]string{
		placeholderResetURL:  resetURL,
		placeholderExpiresIn: formatLifetime(expiresIn),
	})

	if err := n.send(to, PasswordResetRequestTemplate.Subject, body); err != nil {
		n.log(ctx).Warn().
			Err(err).
			Str("email", to).
			Str("reset_url", resetURL).
			Dur("expires_in", expiresIn).
			Msg("password reset email not sent")
		return
	}

	n.log(ctx).Info().Str("email", to).Msg("password reset email sent")
}

func (n *emailNotifier) SendResetSuccessEmail(ctx context.Context, to string) {
	if err := n.send(to, PasswordResetSuccessTemplate.Subject, PasswordResetSuccessTemplate.Body); err != nil {
		n.log(ctx).Warn().Err(err).Str("email", to).Msg("reset success email skipped")
		return
	}

	n.log(ctx).Info().Str("email", to).Msg("reset success email sent")
}

func (n *emailNotifier) send(to, subject, body string) error {
	if n.sender == nil {
		return ErrMailerDisabled
	}

	return n.sender.SendHTML([]string{to}, subject, body)
}

// log prefers the request scoped logger so mail logs keep the request id.
func (n *emailNotifier) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return n.logger
}
