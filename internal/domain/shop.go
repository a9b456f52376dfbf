// Package domain contains the core data types for the shop editor service.
// This package has zero external dependencies and is imported by every other
// internal package (diff, form, editor, repo, service, handler).
package domain

// Shop represents a single place/shop record as persisted in the document
// store. An empty ID signals a record that has not been created yet; the
// persistence layer assigns one on create.
//
// Every field has a well-defined empty sentinel ("" for strings, nil or
// [""]-style placeholders for slices, the zero GeoPoint for coordinates).
// Comparison logic treats a sentinel value as equivalent to the field being
// absent entirely.
type Shop struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Alias          string     `json:"alias"`
	Comment        string     `json:"comment"`
	BusinessHours  []string   `json:"businessHours"`
	Category       string     `json:"category"`
	MediumCategory string     `json:"mediumCategory"`
	SmallCategory  string     `json:"smallCategory"`
	SectionName    string     `json:"sectionName"`
	Address        string     `json:"address"`
	MainImage      string     `json:"mainImage"`
	SubImages      []string   `json:"subImages"`
	PinCoordinates GeoPoint   `json:"pinCoordinates"`
	Path           GeoPath    `json:"path"`
	IconDesign     int        `json:"iconDesign"`
	StreetView     StreetView `json:"streetView"`
	GoogleDataID   string     `json:"googleDataId"`
}

// Clone returns a deep copy of the shop. Slices are copied so that mutating
// the clone never aliases the original — the editor relies on this to keep
// its frozen baseline intact while the working copy is edited.
func (s Shop) Clone() Shop {
	c := s
	if s.BusinessHours != nil {
		c.BusinessHours = append([]string(nil), s.BusinessHours...)
	}
	if s.SubImages != nil {
		c.SubImages = append([]string(nil), s.SubImages...)
	}
	if s.Path != nil {
		c.Path = append(GeoPath(nil), s.Path...)
	}
	return c
}
