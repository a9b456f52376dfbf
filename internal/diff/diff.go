// Package diff implements the semantic equality rules used by the editor to
// decide whether a field has actually changed. "Semantic" means sentinel
// values count as empty: a nil slice, the [""] placeholder, a whitespace-only
// string, and the (0,0) coordinate all compare equal to absence.
//
// Every mutation path in the editor goes through this package — the
// per-reducer inline sentinel checks of older revisions are gone.
package diff

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/mapnote/shopedit/internal/domain"
)

// Equal reports whether a and b are semantically equal.
//
// Rules, applied before generic recursion:
//   - nil counts as empty; two empties are equal.
//   - strings: both empty after trimming whitespace → equal, else exact.
//   - string slices: equal when both are the empty/[""] placeholder, or the
//     JSON serialization of their contents is identical.
//   - GeoPoint / GeoPath / StreetView: both unset sentinels → equal; a
//     transition from unset to set is always a difference.
//   - numbers: NaN equals NaN.
//   - maps with string keys: same key set, every value pairwise Equal.
func Equal(a, b any) bool {
	if isEmpty(a) && isEmpty(b) {
		return true
	}
	if isEmpty(a) != isEmpty(b) {
		return false
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []string:
		bv, ok := b.([]string)
		return ok && stringSlicesEqual(av, bv)
	case domain.GeoPoint:
		bv, ok := b.(domain.GeoPoint)
		return ok && av == bv
	case domain.GeoPath:
		bv, ok := b.(domain.GeoPath)
		return ok && pathsEqual(av, bv)
	case domain.StreetView:
		bv, ok := b.(domain.StreetView)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
		return av == bv
	case map[string]any:
		bv, ok := b.(map[string]any)
		return ok && mapsEqual(av, bv)
	}

	return reflect.DeepEqual(a, b)
}

// Fields returns the set of fields whose value differs between original and
// edited under Equal. It inspects every editable field, not just ones a
// caller happened to touch — this is the authoritative recheck the editor
// runs when the operator closes the form.
func Fields(original, edited *domain.Shop) map[domain.Field]bool {
	modified := make(map[domain.Field]bool)
	if original == nil || edited == nil {
		return modified
	}
	for _, f := range domain.Fields() {
		if !Equal(original.Get(f), edited.Get(f)) {
			modified[f] = true
		}
	}
	return modified
}

// isEmpty reports whether v is a sentinel for "unset".
func isEmpty(v any) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(tv) == ""
	case []string:
		return len(tv) == 0 || (len(tv) == 1 && strings.TrimSpace(tv[0]) == "")
	case domain.GeoPoint:
		return tv.IsZero()
	case domain.GeoPath:
		return tv.IsZero()
	case domain.StreetView:
		return tv.IsZero()
	case int:
		return tv == 0
	case map[string]any:
		return len(tv) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// stringSlicesEqual compares two non-empty string slices by their JSON
// serialization, mirroring how the persisted document compares them.
func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}

func pathsEqual(a, b domain.GeoPath) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
