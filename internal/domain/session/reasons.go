package session

// Auth reason codes returned by the backend that have dedicated
// user-facing messages. Unknown codes fall back to a generic message.
var reasonMessages = map[string]string{
	"EMAIL_EXISTS":                "This email exists already!",
	"EMAIL_NOT_FOUND":             "This email could not be found!",
	"INVALID_PASSWORD":            "This password is not valid!",
	"USER_DISABLED":               "This account has been disabled.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts, try again later.",
	"WEAK_PASSWORD":               "The password is too weak.",
	"INVALID_EMAIL":               "This email address is not valid.",
}

// ReasonMessage maps a backend auth reason code to the message shown to
// the user.
func ReasonMessage(code string) string {
	if msg, ok := reasonMessages[code]; ok {
		return msg
	}
	return "Something went wrong!"
}
