package product

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewDate(t *testing.T) {
	tests := []struct {
		name    string
		release string
		want    string
	}{
		{"regular", "2025-03-14", "2026-03-14"},
		{"year end", "2025-12-31", "2026-12-31"},
		{"year start", "2026-01-01", "2027-01-01"},
		{"leap day clamps", "2024-02-29", "2025-02-28"},
		{"into leap year", "2027-02-28", "2028-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewDate(MustParseDate(tt.release))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestReviewDate_Zero(t *testing.T) {
	assert.True(t, ReviewDate(Date{}).IsZero())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso date", "2025-06-01", "2025-06-01", false},
		{"rfc3339 keeps written date", "2025-06-01T23:30:00-05:00", "2025-06-01", false},
		{"rfc3339 utc", "2025-06-01T00:00:00.000Z", "2025-06-01", false},
		{"empty", "", "", false},
		{"garbage", "next tuesday", "", true},
		{"day first", "01/06/2025", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2025, 6, 1, 22, 0, 0, 0, loc)

	assert.Equal(t, "2025-06-01", DateOf(ts).String())
}

func TestProduct_JSON(t *testing.T) {
	p := Product{
		ID:          "abc123",
		Name:        "Tarjeta",
		Description: "Tarjeta de credito",
		Logo:        "https://example.com/logo.png",
		DateRelease: MustParseDate("2025-01-15"),
	}.WithDerivedRevision()

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "abc123",
		"name": "Tarjeta",
		"description": "Tarjeta de credito",
		"logo": "https://example.com/logo.png",
		"date_release": "2025-01-15",
		"date_revision": "2026-01-15"
	}`, string(data))

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29T00:00:00.000+00:00"`), &d))
	assert.Equal(t, "2024-02-29", d.String())

	assert.Error(t, json.Unmarshal([]byte(`20240229`), &d))
}
