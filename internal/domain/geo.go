package domain

// GeoPoint is a latitude/longitude pair. The zero value (0,0) is the "unset"
// sentinel — legacy data used the string "0,0" and the object {0,0}
// interchangeably; both collapse to this single representation at the data
// model boundary.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point is the unset sentinel.
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// GeoPath is an ordered polygon outline. An empty path, or a single-point
// path at (0,0), is the "unset" sentinel.
type GeoPath []GeoPoint

// IsZero reports whether the path is the unset sentinel.
func (p GeoPath) IsZero() bool {
	if len(p) == 0 {
		return true
	}
	return len(p) == 1 && p[0].IsZero()
}

// StreetView holds a street-view camera reference. An empty PanoID means
// the whole value is unset regardless of the numeric fields.
type StreetView struct {
	PanoID  string  `json:"panoid"`
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	FOV     float64 `json:"fov"`
}

// IsZero reports whether the street view reference is unset.
func (s StreetView) IsZero() bool {
	return s.PanoID == ""
}
