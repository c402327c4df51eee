package userservice

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	msgMissing  = "is missing"
	msgRequired = "is required"
	msgTooShort = fmt.Sprintf("is shorter than the minimum allowed length (%d)", MinLength)
	msgNotUniq  = "expected username to be unique"
)

func validatePassword(v *common.Validator, password *string) {
	if password == nil {
		v.AddError("password", msgMissing)
		return
	}
	v.Check(utf8.RuneCountInString(*password) >= MinLength, "password", msgTooShort)
}

// usernameError turns a store constraint failure into a field message. ok is false for
// errors that are not constraint failures.
func usernameError(err error) (message string, ok bool) {
	switch {
	case errors.Is(err, ErrUsernameRequired):
		return msgRequired, true
	case errors.Is(err, ErrUsernameTooShort):
		return msgTooShort, true
	case errors.Is(err, ErrDuplicateUsername):
		return msgNotUniq, true
	default:
		return "", false
	}
}
