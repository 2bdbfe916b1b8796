package geospatial_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/quickcash/internal/pkg/geospatial"
)

type place struct {
	Name string
	Lat  float64
	Lon  float64
}

func (p place) Coordinates() (float64, float64) { return p.Lat, p.Lon }

func places() []place {
	return []place{
		{Name: "montreal", Lat: montreal.Lat, Lon: montreal.Lon},
		{Name: "near", Lat: nearby.Lat, Lon: nearby.Lon},
		{Name: "dartmouth", Lat: 44.6713, Lon: -63.5772},
		{Name: "toronto", Lat: toronto.Lat, Lon: toronto.Lon},
		{Name: "bedford", Lat: 44.7325, Lon: -63.6556},
	}
}

func names(ps []place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestFilterWithinRadius_HalifaxScenario(t *testing.T) {
	records := []place{
		{Name: "near", Lat: 44.6358, Lon: -63.5959},
		{Name: "Montreal", Lat: 45.5017, Lon: -73.5673},
	}

	got := geospatial.FilterWithinRadius(records, halifax, 10.0)
	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].Name)
}

func TestFilterWithinRadius_PreservesOrder(t *testing.T) {
	got := geospatial.FilterWithinRadius(places(), halifax, 25)
	if diff := cmp.Diff([]string{"near", "dartmouth", "bedford"}, names(got)); diff != "" {
		t.Errorf("filtered names mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterWithinRadius_DoesNotMutateInput(t *testing.T) {
	in := places()
	before := append([]place(nil), in...)

	_ = geospatial.FilterWithinRadius(in, halifax, 25)
	_ = geospatial.SortByDistance(in, halifax)

	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestFilterWithinRadius_ZeroRadius(t *testing.T) {
	center := place{Name: "center", Lat: halifax.Lat, Lon: halifax.Lon}

	got := geospatial.FilterWithinRadius([]place{center}, halifax, 0)
	require.Len(t, got, 1)
	assert.Equal(t, center, got[0])

	got = geospatial.FilterWithinRadius(places(), halifax, 0)
	assert.Empty(t, got)
}

func TestFilterWithinRadius_NegativeRadius(t *testing.T) {
	center := place{Name: "center", Lat: halifax.Lat, Lon: halifax.Lon}
	for _, r := range []float64{-0.0001, -1, -1e9} {
		got := geospatial.FilterWithinRadius(append(places(), center), halifax, r)
		assert.Empty(t, got, "radius %v", r)
		assert.NotNil(t, got)
	}
}

func TestFilterWithinRadius_EmptyInput(t *testing.T) {
	assert.Empty(t, geospatial.FilterWithinRadius[place](nil, halifax, 100))
}

func TestFilterWithinRadius_Idempotent(t *testing.T) {
	for _, r := range []float64{0, 1, 25, 600, 2000} {
		once := geospatial.FilterWithinRadius(places(), halifax, r)
		twice := geospatial.FilterWithinRadius(once, halifax, r)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("radius %v: second pass changed result (-once +twice):\n%s", r, diff)
		}
	}
}

func TestSortByDistance_OrdersAscending(t *testing.T) {
	got := geospatial.SortByDistance(places(), halifax)
	if diff := cmp.Diff([]string{"near", "dartmouth", "bedford", "montreal", "toronto"}, names(got)); diff != "" {
		t.Errorf("sorted names mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t,
			geospatial.DistanceKm(halifax, got[i-1]),
			geospatial.DistanceKm(halifax, got[i]))
	}
}

func TestSortByDistance_IsPermutation(t *testing.T) {
	in := places()
	got := geospatial.SortByDistance(in, montreal)
	require.Len(t, got, len(in))

	want := names(in)
	have := names(got)
	sort.Strings(want)
	sort.Strings(have)
	assert.Equal(t, want, have)
}

func TestSortByDistance_StableForTies(t *testing.T) {
	in := []place{
		{Name: "a", Lat: 1, Lon: 1},
		{Name: "far", Lat: 10, Lon: 10},
		{Name: "b", Lat: 1, Lon: 1},
		{Name: "c", Lat: 1, Lon: 1},
	}
	got := geospatial.SortByDistance(in, geospatial.Point{})
	assert.Equal(t, []string{"a", "b", "c", "far"}, names(got))
}
