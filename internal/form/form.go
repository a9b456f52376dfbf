// Package form converts a shop record into the flat, display-ready
// projection the editor form renders. Complex fields (coordinates, polygon
// path, street view) collapse to a presence marker; array fields render as
// comma-joined strings. The projection is purely derived state — projecting
// the same record twice always yields identical output.
package form

import (
	"strings"

	"github.com/mapnote/shopedit/internal/domain"
)

// Registered is the marker shown for a complex field that holds a real
// (non-sentinel) value. The form only needs to show that the value exists;
// the actual geometry lives on the working record.
const Registered = "registered"

// Projection is the flat string form of a shop record. Every field is a
// string; empty means unset.
type Projection struct {
	Name           string `json:"name"`
	Alias          string `json:"alias"`
	Comment        string `json:"comment"`
	BusinessHours  string `json:"businessHours"`
	Category       string `json:"category"`
	MediumCategory string `json:"mediumCategory"`
	SmallCategory  string `json:"smallCategory"`
	SectionName    string `json:"sectionName"`
	Address        string `json:"address"`
	MainImage      string `json:"mainImage"`
	SubImages      string `json:"subImages"`
	PinCoordinates string `json:"pinCoordinates"`
	Path           string `json:"path"`
	IconDesign     string `json:"iconDesign"`
	StreetView     string `json:"streetView"`
	GoogleDataID   string `json:"googleDataId"`
}

// Project builds the projection for s. A nil shop projects to the all-empty
// projection (the canonical empty record).
func Project(s *domain.Shop) Projection {
	if s == nil {
		return Projection{}
	}

	p := Projection{
		Name:           s.Name,
		Alias:          s.Alias,
		Comment:        s.Comment,
		BusinessHours:  joinList(s.BusinessHours),
		Category:       s.Category,
		MediumCategory: s.MediumCategory,
		SmallCategory:  s.SmallCategory,
		SectionName:    s.SectionName,
		Address:        s.Address,
		MainImage:      s.MainImage,
		SubImages:      joinList(s.SubImages),
		GoogleDataID:   s.GoogleDataID,
	}
	if !s.PinCoordinates.IsZero() {
		p.PinCoordinates = Registered
	}
	if !s.Path.IsZero() {
		p.Path = Registered
	}
	if s.IconDesign != 0 {
		p.IconDesign = Registered
	}
	if !s.StreetView.IsZero() {
		p.StreetView = Registered
	}
	return p
}

// joinList renders a string list as a comma-joined string. The canonical
// empty forms (nil, [], [""]) all render as "".
func joinList(items []string) string {
	var kept []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, ", ")
}
