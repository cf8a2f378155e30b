// Package view turns a résumé record into the data handed to the page
// template.
package view

import (
	"strings"

	"resume-page/internal/model"
)

const addressSeparator = ", "

// ViewModel is the record plus the derived address line. The embedded
// record keeps its JSON shape, so the encoded view is the encoded record
// with one extra "address" key.
type ViewModel struct {
	model.ResumeRecord
	Address string `json:"address"`
}

// FormatAddress joins country, city and postal code in that order,
// skipping empty parts.
func FormatAddress(country, city, postalCode string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{country, city, postalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, addressSeparator)
}

// Bind derives the view model once. r is copied, never modified.
func Bind(r model.ResumeRecord) ViewModel {
	return ViewModel{
		ResumeRecord: r,
		Address:      FormatAddress(r.Country, r.City, r.PostalCode),
	}
}

// FullName is used by the page header and the document title.
func (v ViewModel) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}
