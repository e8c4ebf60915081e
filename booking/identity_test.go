package booking

import (
	"strings"
	"testing"

	"talentclub/apperr"
	"talentclub/models"
)

func TestPhoneIdentityVerifier(t *testing.T) {
	account := models.Account{Phone: "555", Name: "Amy", Password: "secret"}
	verifier := PhoneIdentityVerifier{}

	cases := []struct {
		name       string
		submitName string
		submitPass string
		wantErr    bool
		wantMsg    string
	}{
		{"exact match", "Amy", "secret", false, ""},
		{"case-insensitive name", "aMy", "secret", false, ""},
		{"name wrong", "Bob", "secret", true, "Name 'Bob' is wrong"},
		{"password wrong", "Amy", "nope", true, "Password is wrong"},
		{"both wrong", "Bob", "nope", true, "both Name and Password are wrong"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := verifier.Verify(tc.submitName, tc.submitPass, account)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperr.Is(err, apperr.IdentityConflict) {
				t.Fatalf("expected IdentityConflict, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("message %q does not contain %q", err.Error(), tc.wantMsg)
			}
		})
	}
}
