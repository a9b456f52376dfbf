// Package places maps a raw Google-style place-detail object onto a shop
// record so the compare bridge can treat search results as an opaque
// reference record. The mapping is deliberately thin: it renames fields and
// nothing else.
package places

import "github.com/mapnote/shopedit/internal/domain"

// Detail is the raw place-detail shape returned by the place search
// collaborator. Only the fields the editor consumes are decoded.
type Detail struct {
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	OpeningHours struct {
		WeekdayText []string `json:"weekday_text"`
	} `json:"opening_hours"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
	PlaceID string `json:"place_id"`
}

// ToShop converts a place detail into a reference shop record. Photo
// references pass through as sub-image references; pulling them into owned
// storage happens later through the image collaborator.
func ToShop(d Detail) domain.Shop {
	shop := domain.Shop{
		Name:          d.Name,
		Address:       d.FormattedAddress,
		BusinessHours: append([]string(nil), d.OpeningHours.WeekdayText...),
		GoogleDataID:  d.PlaceID,
		PinCoordinates: domain.GeoPoint{
			Lat: d.Geometry.Location.Lat,
			Lng: d.Geometry.Location.Lng,
		},
	}
	for _, p := range d.Photos {
		if p.PhotoReference != "" {
			shop.SubImages = append(shop.SubImages, p.PhotoReference)
		}
	}
	return shop
}
