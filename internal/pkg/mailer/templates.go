package mailer

import "fmt"

func RegistrationConfirmed(name, kind, title string) (subject, body string) {
	subject = fmt.Sprintf("Registration confirmed for %s", title)
	body = fmt.Sprintf("Hello %s,\n\n"+
		"Your payment has been verified and your registration for the %s \"%s\" is confirmed.\n\n"+
		"See you there!\nMMK Universe", name, kind, title)
	return subject, body
}

func PasswordResetOTP(code string, minutes int) (subject, body string) {
	subject = "Your MMK Universe password reset code"
	body = fmt.Sprintf("Your one-time password is %s.\n\n"+
		"It expires in %d minutes. If you did not request a password reset, ignore this email.", code, minutes)
	return subject, body
}
