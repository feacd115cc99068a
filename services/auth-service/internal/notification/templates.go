package notification

import (
	"html"
	"strconv"
	"strings"
	"time"
)

// Template is an email subject and HTML body with {placeholder} fields.
type Template struct {
	Subject string
	Body    string
}

// Render substitutes each {key} in the body with the HTML-escaped value.
func (t Template) Render(values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", html.EscapeString(value))
	}

	return strings.NewReplacer(pairs...).Replace(t.Body)
}

const (
	placeholderVerificationCode = "verificationCode"
	placeholderName             = "name"
	placeholderDashboardURL     = "dashboardURL"
	placeholderResetURL         = "resetURL"
	placeholderExpiresIn        = "expiresIn"
)

// formatLifetime renders d in whole hours and minutes, e.g. "1 hour 30 minutes".
func formatLifetime(d time.Duration) string {
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}

	return strings.Join(parts, " ")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

const layoutHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
`

const layoutFoot = `  <p>Best regards,<br><strong>BecBillDESK Team</strong></p>
  <p style="text-align: center; color: #888; font-size: 0.8em;">This is an automated message, please do not reply to this email.</p>
</body>
</html>
`

var VerificationTemplate = Template{
	Subject: "Verify your email",
	Body: layoutHead + `  <h1 style="color: #10b981;">Verify your BecBillDESK account</h1>
  <p>Thank you for signing up with <strong>BecBillDESK</strong>. Your verification code is:</p>
  <p style="text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #10b981;">{verificationCode}</p>
  <p>Enter this code on the verification page to finish your registration. The code expires in {expiresIn}.</p>
  <p>If you did not create an account, you can ignore this email.</p>
` + layoutFoot,
}

var WelcomeTemplate = Template{
	Subject: "Welcome to BecBillDESK",
	Body: layoutHead + `  <h1 style="color: #10b981;">Welcome to BecBillDESK!</h1>
  <p>Hello <strong>{name}</strong>,</p>
  <p>Your email has been verified and your account is now active.</p>
  <p style="text-align: center;"><a href="{dashboardURL}" style="background-color: #10b981; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Go to Dashboard</a></p>
` + layoutFoot,
}

var PasswordResetRequestTemplate = Template{
	Subject: "Reset your password",
	Body: layoutHead + `  <h1 style="color: #10b981;">Password reset request</h1>
  <p>We received a request to reset the password of your <strong>BecBillDESK</strong> account. If you did not make this request, ignore this email.</p>
  <p style="text-align: center;"><a href="{resetURL}" style="background-color: #10b981; color: white; padding: 12px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
  <p>Or paste this link into your browser:</p>
  <p style="word-break: break-all; color: #10b981;">{resetURL}</p>
  <p>This link expires in {expiresIn}.</p>
` + layoutFoot,
}

var PasswordResetSuccessTemplate = Template{
	Subject: "Password reset successful",
	Body: layoutHead + `  <h1 style="color: #10b981;">Password reset successful</h1>
  <p>The password of your <strong>BecBillDESK</strong> account has been changed.</p>
  <p>If you did not do this, contact our support team immediately.</p>
` + layoutFoot,
}
