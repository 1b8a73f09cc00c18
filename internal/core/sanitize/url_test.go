package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLSanitizer_Sanitize(t *testing.T) {
	s := NewURLSanitizer()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"https", "https://valid.url/image.png", "https://valid.url/image.png", true},
		{"trims", "  https://valid.url/image.png\n", "https://valid.url/image.png", true},
		{"query string", "https://cdn.example.com/a.png?w=64&h=64", "https://cdn.example.com/a.png?w=64&h=64", true},
		{"relative", "/assets/logo.png", "/assets/logo.png", true},
		{"mailto", "mailto:team@example.com", "mailto:team@example.com", true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
		{"javascript", "javascript:alert(1)", "", false},
		{"vbscript", "vbscript:msgbox(1)", "", false},
		{"data uri", "data:text/html;base64,PHNjcmlwdD4=", "", false},
		{"inner whitespace", "https://valid.url/my logo.png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Sanitize(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLSanitizer_CustomSchemes(t *testing.T) {
	s := NewURLSanitizer("https")

	_, ok := s.Sanitize("http://plain.example.com")
	assert.False(t, ok)

	got, ok := s.Sanitize("https://secure.example.com")
	assert.True(t, ok)
	assert.Equal(t, "https://secure.example.com", got)
}

func TestURLSanitizer_NeverEmitsMarkup(t *testing.T) {
	s := NewURLSanitizer()

	got, _ := s.Sanitize(`https://x.y/"><script>alert(1)</script>`)
	assert.NotContains(t, got, "<script>")
	assert.NotContains(t, got, `"`)
}
