package validate

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Nigerian mobile: optional +234/234/0 prefix, then 7/8/9 and nine digits
	rePhone  = regexp.MustCompile(`^(\+?234|0)?[789]\d{9}$`)
	rePostal = regexp.MustCompile(`^\d{6}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) bool {
	return reEmail.MatchString(strings.TrimSpace(s))
}

// Phone strips internal whitespace before matching, so "0803 123 4567" passes.
func Phone(s string) bool {
	s = strings.Join(strings.Fields(s), "")
	return rePhone.MatchString(s)
}

func URL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func PostalCode(s string) bool {
	return rePostal.MatchString(s)
}

// ID validates a simple resource identifier (draft/property ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Password enforces a simple strength window for operator logins.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
