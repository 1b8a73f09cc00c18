// Package sanitize cleans user supplied values before they are sent to the
// catalog API.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// DefaultSchemes are the URL schemes allowed by NewURLSanitizer when none
// are given.
var DefaultSchemes = []string{"http", "https", "ftp", "mailto", "tel"}

// URLSanitizer runs URLs through an HTML sanitization policy that only
// permits the href attribute, so the policy's URL checks decide what
// survives.
type URLSanitizer struct {
	policy *bluemonday.Policy
}

// NewURLSanitizer returns a sanitizer allowing the given schemes and
// relative URLs.
func NewURLSanitizer(schemes ...string) *URLSanitizer {
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}

	p := bluemonday.NewPolicy()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes(schemes...)
	p.AllowAttrs("href").OnElements("a")

	return &URLSanitizer{policy: p}
}

// Sanitize trims raw and returns the sanitized URL. ok is false when the
// input is blank or the policy rejected it.
func (s *URLSanitizer) Sanitize(raw string) (clean string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	doc := `<a href="` + html.EscapeString(trimmed) + `">x</a>`
	return firstHref(s.policy.Sanitize(doc))
}

// firstHref returns the href of the first anchor in fragment.
func firstHref(fragment string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "href" && attr.Val != "" {
					return attr.Val, true
				}
			}
			return "", false
		}
	}
}
