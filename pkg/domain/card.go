package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ClientCard is the loyalty card attached to the account. The server keeps at
// most one active card per user; setting a card is a full replace.
type ClientCard struct {
	Ccnum string `json:"ccnum"`
}

// minCardDigits is the shortest card number the scanner accepts.
const minCardDigits = 6

// ErrInvalidCardNumber is returned when a scanned or typed card number has
// fewer than six digits after normalization.
var ErrInvalidCardNumber = errors.New("card number must contain at least 6 digits")

// NormalizeCardNumber strips every non-digit character from a scanned or
// manually entered card number. Inputs that keep fewer than six digits are
// rejected without any call being made.
func NormalizeCardNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	ccnum := b.String()
	if len(ccnum) < minCardDigits {
		return "", ErrInvalidCardNumber
	}
	return ccnum, nil
}

// VirtualCardApplication is the payload for requesting a new virtual loyalty
// card. The address block is only required when the applicant opts into
// raffles and games.
type VirtualCardApplication struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	EGN        string `json:"egn"`
	PostCode   string `json:"post_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	WantsGames bool   `json:"wants_games"`

	City             string `json:"city"`
	StreetOrDistrict string `json:"street_or_district"`
	StreetNo         string `json:"street_no"`
	Block            string `json:"block"`
	Entrance         string `json:"entrance"`
	Apartment        string `json:"apartment"`

	Consent bool `json:"consent"`
}

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the required application fields and returns a
// human-readable error for the first failing one.
func (a VirtualCardApplication) Validate() error {
	switch {
	case len(strings.TrimSpace(a.FirstName)) < 2:
		return errors.New("first name is required")
	case len(strings.TrimSpace(a.MiddleName)) < 2:
		return errors.New("middle name is required")
	case len(strings.TrimSpace(a.LastName)) < 2:
		return errors.New("last name is required")
	case len(digits(a.EGN)) != 10:
		return errors.New("EGN must be 10 digits")
	case len(digits(a.PostCode)) != 4:
		return errors.New("post code must be 4 digits")
	case len(digits(a.Phone)) < 8:
		return errors.New("phone number is too short")
	case !emailRe.MatchString(strings.TrimSpace(a.Email)):
		return errors.New("email address is not valid")
	case !a.Consent:
		return errors.New("data processing consent is required")
	}
	return nil
}
