package domain

import (
	"encoding/json"
	"fmt"
)

// Field names an editable shop field. The string values match the JSON keys
// used on the wire and in the persisted document, so the editor can track
// modifications under the same names a client sends.
type Field string

const (
	FieldName           Field = "name"
	FieldAlias          Field = "alias"
	FieldComment        Field = "comment"
	FieldBusinessHours  Field = "businessHours"
	FieldCategory       Field = "category"
	FieldMediumCategory Field = "mediumCategory"
	FieldSmallCategory  Field = "smallCategory"
	FieldSectionName    Field = "sectionName"
	FieldAddress        Field = "address"
	FieldMainImage      Field = "mainImage"
	FieldSubImages      Field = "subImages"
	FieldPinCoordinates Field = "pinCoordinates"
	FieldPath           Field = "path"
	FieldIconDesign     Field = "iconDesign"
	FieldStreetView     Field = "streetView"
	FieldGoogleDataID   Field = "googleDataId"
)

// Fields returns every editable field in a stable order. The record ID is
// deliberately excluded — it is assigned by persistence, never edited.
func Fields() []Field {
	return []Field{
		FieldName, FieldAlias, FieldComment, FieldBusinessHours,
		FieldCategory, FieldMediumCategory, FieldSmallCategory,
		FieldSectionName, FieldAddress, FieldMainImage, FieldSubImages,
		FieldPinCoordinates, FieldPath, FieldIconDesign, FieldStreetView,
		FieldGoogleDataID,
	}
}

// Valid reports whether f names a known editable field.
func (f Field) Valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// Get returns the current value of field f. Unknown fields return nil.
func (s *Shop) Get(f Field) any {
	switch f {
	case FieldName:
		return s.Name
	case FieldAlias:
		return s.Alias
	case FieldComment:
		return s.Comment
	case FieldBusinessHours:
		return s.BusinessHours
	case FieldCategory:
		return s.Category
	case FieldMediumCategory:
		return s.MediumCategory
	case FieldSmallCategory:
		return s.SmallCategory
	case FieldSectionName:
		return s.SectionName
	case FieldAddress:
		return s.Address
	case FieldMainImage:
		return s.MainImage
	case FieldSubImages:
		return s.SubImages
	case FieldPinCoordinates:
		return s.PinCoordinates
	case FieldPath:
		return s.Path
	case FieldIconDesign:
		return s.IconDesign
	case FieldStreetView:
		return s.StreetView
	case FieldGoogleDataID:
		return s.GoogleDataID
	}
	return nil
}

// Set writes v into field f. The value must already have the field's Go type
// (use ParseFieldValue to convert a freshly-decoded JSON value first).
// Returns a domain.ErrValidation-wrapped error on a type mismatch or an
// unknown field.
func (s *Shop) Set(f Field, v any) error {
	mismatch := func() error {
		return fmt.Errorf("%w: field %q: unexpected value type %T", ErrValidation, f, v)
	}
	switch f {
	case FieldName, FieldAlias, FieldComment, FieldCategory,
		FieldMediumCategory, FieldSmallCategory, FieldSectionName,
		FieldAddress, FieldMainImage, FieldGoogleDataID:
		sv, ok := v.(string)
		if !ok {
			return mismatch()
		}
		switch f {
		case FieldName:
			s.Name = sv
		case FieldAlias:
			s.Alias = sv
		case FieldComment:
			s.Comment = sv
		case FieldCategory:
			s.Category = sv
		case FieldMediumCategory:
			s.MediumCategory = sv
		case FieldSmallCategory:
			s.SmallCategory = sv
		case FieldSectionName:
			s.SectionName = sv
		case FieldAddress:
			s.Address = sv
		case FieldMainImage:
			s.MainImage = sv
		case FieldGoogleDataID:
			s.GoogleDataID = sv
		}
		return nil
	case FieldBusinessHours:
		sv, ok := v.([]string)
		if !ok {
			return mismatch()
		}
		s.BusinessHours = sv
		return nil
	case FieldSubImages:
		sv, ok := v.([]string)
		if !ok {
			return mismatch()
		}
		s.SubImages = sv
		return nil
	case FieldPinCoordinates:
		sv, ok := v.(GeoPoint)
		if !ok {
			return mismatch()
		}
		s.PinCoordinates = sv
		return nil
	case FieldPath:
		sv, ok := v.(GeoPath)
		if !ok {
			return mismatch()
		}
		s.Path = sv
		return nil
	case FieldIconDesign:
		sv, ok := v.(int)
		if !ok {
			return mismatch()
		}
		s.IconDesign = sv
		return nil
	case FieldStreetView:
		sv, ok := v.(StreetView)
		if !ok {
			return mismatch()
		}
		s.StreetView = sv
		return nil
	}
	return fmt.Errorf("%w: unknown field %q", ErrValidation, f)
}

// ParseFieldValue converts a JSON-decoded value (string, []any, float64,
// map[string]any, ...) into the Go type field f expects, so it can be passed
// to Set. It round-trips through encoding/json, which handles every shape a
// client can legally send for the field.
func ParseFieldValue(f Field, raw any) (any, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: unknown field %q", ErrValidation, f)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrValidation, f, err)
	}

	decode := func(dst any) (any, error) {
		if err := json.Unmarshal(b, dst); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrValidation, f, err)
		}
		return deref(dst), nil
	}

	switch f {
	case FieldBusinessHours, FieldSubImages:
		return decode(new([]string))
	case FieldPinCoordinates:
		return decode(new(GeoPoint))
	case FieldPath:
		return decode(new(GeoPath))
	case FieldIconDesign:
		return decode(new(int))
	case FieldStreetView:
		return decode(new(StreetView))
	default:
		return decode(new(string))
	}
}

// deref unwraps the pointer created for json.Unmarshal.
func deref(v any) any {
	switch p := v.(type) {
	case *string:
		return *p
	case *[]string:
		return *p
	case *GeoPoint:
		return *p
	case *GeoPath:
		return *p
	case *int:
		return *p
	case *StreetView:
		return *p
	}
	return v
}
