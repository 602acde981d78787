package mailer

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether addr looks like an email address.
func IsValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// AddressCheck is the verdict for one address.
type AddressCheck struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

// Validation partitions a list of addresses.
type Validation struct {
	Total         int            `json:"total"`
	Valid         int            `json:"valid"`
	Invalid       int            `json:"invalid"`
	ValidEmails   []string       `json:"validEmails"`
	InvalidEmails []string       `json:"invalidEmails"`
	Results       []AddressCheck `json:"validationResults"`
}

// ValidateAddresses checks each address in order. Surrounding whitespace is trimmed.
func ValidateAddresses(emails []string) Validation {
	v := Validation{
		Total:         len(emails),
		ValidEmails:   []string{},
		InvalidEmails: []string{},
		Results:       make([]AddressCheck, 0, len(emails)),
	}
	for _, e := range emails {
		e = strings.TrimSpace(e)
		ok := IsValidEmail(e)
		v.Results = append(v.Results, AddressCheck{Email: e, Valid: ok})
		if ok {
			v.ValidEmails = append(v.ValidEmails, e)
		} else {
			v.InvalidEmails = append(v.InvalidEmails, e)
		}
	}
	v.Valid = len(v.ValidEmails)
	v.Invalid = len(v.InvalidEmails)
	return v
}
