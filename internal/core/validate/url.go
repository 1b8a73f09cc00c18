package validate

import (
	"net/url"
	"strings"
)

// CheckURL validates that a non-blank value is an absolute URL using the
// http or https scheme. Blank values pass; pair with Required when the
// field is mandatory.
func CheckURL(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" {
		return Fail(CodeInvalidURL, "invalid URL format")
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return Fail(CodeInvalidURL, "URL must use http or https")
	}

	if u.Host == "" {
		return Fail(CodeInvalidURL, "invalid URL format")
	}
	return nil
}

// SafeURL fails with CodeInvalidURL when a value that passes CheckURL is
// rejected by clean. Blank and malformed values are left to the other rules
// so a bad URL is reported once.
func SafeURL(clean func(string) (string, bool)) Rule {
	return func(value string) error {
		if strings.TrimSpace(value) == "" || CheckURL(value) != nil {
			return nil
		}
		if _, ok := clean(value); !ok {
			return Fail(CodeInvalidURL, "URL rejected by sanitizer")
		}
		return nil
	}
}
