package notification

import "strings"

const emailVerifyTemplate = `<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Verify your email</h2>
  <p>You are trying to verify the account registered to {{email}}.</p>
  <p>Use the code below to complete verification. It expires in 24 hours.</p>
  <p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{otp}}</p>
</div>`

const passwordResetTemplate = `<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>Reset your password</h2>
  <p>A password reset was requested for {{email}}.</p>
  <p>Use the code below within the next 15 minutes before it expires.</p>
  <p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{otp}}</p>
  <p>If you did not request this, you can ignore this message.</p>
</div>`

// RenderVerifyEmail fills the account verification template.
func RenderVerifyEmail(email, otp string) string {
	return renderOTPTemplate(emailVerifyTemplate, email, otp)
}

// RenderResetEmail fills the password reset template.
func RenderResetEmail(email, otp string) string {
	return renderOTPTemplate(passwordResetTemplate, email, otp)
}

// RenderWelcomeEmail builds the plain welcome message body.
func RenderWelcomeEmail(name, email string) string {
	return "Welcome " + name + ", your account has been created with the email id: " + email
}

func renderOTPTemplate(tpl, email, otp string) string {
	out := strings.ReplaceAll(tpl, "{{otp}}", otp)
	return strings.ReplaceAll(out, "{{email}}", email)
}
