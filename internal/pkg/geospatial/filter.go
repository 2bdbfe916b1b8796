package geospatial

import (
	"cmp"
	"slices"
)

// FilterWithinRadius returns the records whose distance from center is at most
// radiusKm, in their original order. The input slice is not modified.
// A negative radius matches nothing; a zero radius matches only points that
// coincide with center.
func FilterWithinRadius[T Located](records []T, center Located, radiusKm float64) []T {
	out := make([]T, 0, len(records))
	if radiusKm < 0 {
		return out
	}
	for _, r := range records {
		if DistanceKm(center, r) <= radiusKm {
			out = append(out, r)
		}
	}
	return out
}

// SortByDistance returns a copy of records ordered by ascending distance from
// center. Records at equal distance keep their relative order.
func SortByDistance[T Located](records []T, center Located) []T {
	type keyed struct {
		rec  T
		dist float64
	}

	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{rec: r, dist: DistanceKm(center, r)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		return cmp.Compare(a.dist, b.dist)
	})

	out := make([]T, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}
