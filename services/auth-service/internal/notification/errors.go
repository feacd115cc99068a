package notification

import "errors"

// ErrMailerDisabled is reported when no SMTP sender is configured.
var ErrMailerDisabled = errors.New("mailer not configured")
