package domain

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	displayNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]{3,50}$`)
	namePattern        = regexp.MustCompile(`^[a-zA-Z0-9 .,'!_-]{1,100}$`)
	symbolPattern      = regexp.MustCompile(`^[A-Z]{1,8}$`)
	currencyPattern    = regexp.MustCompile(`^[A-Z]{3,5}$`)
)

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func ValidateEmail(v string) error {
	if _, err := mail.ParseAddress(NormalizeEmail(v)); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}

func ValidatePassword(v string) error {
	if len(v) < 8 || len(v) > 72 {
		return fmt.Errorf("%w: password must be 8-72 chars", ErrInvalidInput)
	}
	var hasLetter, hasDigit bool
	for _, r := range v {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain letters and digits", ErrInvalidInput)
	}
	return nil
}

func ValidateDisplayName(v string) error {
	if !displayNamePattern.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("%w: display_name must be 3-50 chars and contain only letters, numbers, spaces, hyphens, underscores", ErrInvalidInput)
	}
	return nil
}

func ValidatePreferredCurrency(v string) error {
	if !currencyPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
		return fmt.Errorf("%w: preferred_currency must be a 3-5 letter code", ErrInvalidInput)
	}
	return nil
}

func ValidateNFTName(v string) error {
	if !namePattern.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("%w: name must be 1-100 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateImageURL(v string) error {
	parsed, err := url.Parse(strings.TrimSpace(v))
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "ipfs") || parsed.Host == "" {
		return fmt.Errorf("%w: image_url must be an https or ipfs url", ErrInvalidInput)
	}
	return nil
}

func ValidateStockSymbol(v string) error {
	if !symbolPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
		return fmt.Errorf("%w: symbol must be 1-8 uppercase letters", ErrInvalidInput)
	}
	return nil
}

// ValidatePositiveAmount guards every ledger-touching input: amounts are
// always positive, the signed meaning comes from the transaction type.
func ValidatePositiveAmount(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}
