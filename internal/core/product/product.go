// Package product defines the product record exchanged with the catalog API.
package product

// Product is a catalog entry. DateRevision is always DateRelease plus one
// year; it is derived, never entered.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  Date   `json:"date_release"`
	DateRevision Date   `json:"date_revision"`
}

// ReviewDate returns the revision date derived from a release date.
func ReviewDate(release Date) Date {
	return release.AddYears(1)
}

// WithDerivedRevision returns a copy of p whose DateRevision is recomputed
// from DateRelease.
func (p Product) WithDerivedRevision() Product {
	p.DateRevision = ReviewDate(p.DateRelease)
	return p
}
