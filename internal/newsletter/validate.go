package newsletter

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// mailboxPattern is the address shape the signup form has always accepted:
// a dot-atom local part and a dotted host ending in a TLD of two or more
// letters. Quoted local parts and IP literals are rejected.
var mailboxPattern = regexp.MustCompile(`(?i)^[a-z0-9_'+\-.]*[a-z0-9_+\-]@([a-z0-9][a-z0-9\-]*\.)+[a-z]{2,}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("mailbox", isMailbox); err != nil {
		panic(err)
	}
	return v
}

func isMailbox(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return mailboxPattern.MatchString(s)
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Uniqueness is decided on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail reports whether email is a syntactically valid address.
// The signup client runs the same check before calling the server.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email,mailbox,max=320"); err != nil {
		return validationError(err)
	}
	return nil
}
