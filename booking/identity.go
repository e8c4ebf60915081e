package booking

import (
	"strings"

	"talentclub/apperr"
	"talentclub/models"
)

// IdentityVerifier decides whether a submitted name/password pair may act on
// the account already holding a phone number. The default implementation
// preserves the service's documented weakness (plaintext password, phone as
// the key); swapping in real auth only means replacing this.
type IdentityVerifier interface {
	Verify(name, password string, account models.Account) error
}

// PhoneIdentityVerifier compares the display name case-insensitively and the
// password byte-for-byte in plaintext.
type PhoneIdentityVerifier struct{}

func (PhoneIdentityVerifier) Verify(name, password string, account models.Account) error {
	nameWrong := !strings.EqualFold(account.Name, name)
	passwordWrong := account.Password != password

	switch {
	case nameWrong && passwordWrong:
		return apperr.New(apperr.IdentityConflict,
			"Account exists with this phone number, but both Name and Password are wrong.")
	case nameWrong:
		return apperr.New(apperr.IdentityConflict,
			"Account exists with this phone number, but the Name '%s' is wrong.", name)
	case passwordWrong:
		return apperr.New(apperr.IdentityConflict,
			"Account exists with this phone number, but the Password is wrong.")
	}
	return nil
}
