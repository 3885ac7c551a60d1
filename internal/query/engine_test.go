package query

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissgeo/internal/geotest"
	"swissgeo/internal/models"
	"swissgeo/internal/normalizer"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(geotest.Model())
}

func TestCountPoliticalCommunitiesInCanton(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		code string
		want int
	}{
		{"ZH", 3},
		{"BE", 1},
		{"BS", 2},
		{"FR", 1},
	}
	for _, tt := range tests {
		got, err := e.CountPoliticalCommunitiesInCanton(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "canton %s", tt.code)
	}
}

func TestCountPoliticalCommunitiesInCanton_UnknownCode(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CountPoliticalCommunitiesInCanton("XX")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, EntityCanton, lookupErr.Entity)
	assert.Equal(t, "XX", lookupErr.Key)
}

func TestCountDistrictsInCanton(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.CountDistrictsInCanton("ZH")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = e.CountDistrictsInCanton("BS")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = e.CountDistrictsInCanton("zh")
	assert.ErrorIs(t, err, ErrInvalidArgument, "codes are case sensitive")
}

func TestCountPoliticalCommunitiesInDistrict(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.CountPoliticalCommunitiesInDistrict("109")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = e.CountPoliticalCommunitiesInDistrict("1004")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = e.CountPoliticalCommunitiesInDistrict("999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "district")
}

func TestDistrictNamesForZipCode(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, []string{"Bezirk Zürich"}, e.DistrictNamesForZipCode("8001"))
	assert.Equal(t, []string{"Bezirk Uster", "Bezirk Zürich"}, e.DistrictNamesForZipCode("8600"))
	assert.Equal(t, []string{"Basel-Stadt"}, e.DistrictNamesForZipCode("4000"), "all additions, one district")
}

func TestDistrictNamesForZipCode_NoMatch(t *testing.T) {
	e := newTestEngine(t)

	names := e.DistrictNamesForZipCode("1234")
	assert.NotNil(t, names)
	assert.Empty(t, names)

	assert.Empty(t, e.DistrictNamesForZipCode("9999"), "postal community without links")
}

func TestLastUpdateByPostalCommunityName(t *testing.T) {
	e := newTestEngine(t)

	got, ok := e.LastUpdateByPostalCommunityName("Dübendorf")
	require.True(t, ok)
	assert.Equal(t, time.Date(2010, time.July, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = e.LastUpdateByPostalCommunityName("Bern")
	require.True(t, ok)
	assert.Equal(t, 2010, got.Year())
}

func TestLastUpdateByPostalCommunityName_Absent(t *testing.T) {
	e := newTestEngine(t)

	_, ok := e.LastUpdateByPostalCommunityName("Atlantis")
	assert.False(t, ok)

	_, ok = e.LastUpdateByPostalCommunityName("Nirgendwo")
	assert.False(t, ok, "postal community without linked political community")
}

func TestCountCantons(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 4, e.CountCantons())

	assert.Equal(t, 0, New(models.NewModel(nil, nil, nil, nil)).CountCantons())
}

func TestCountPoliticalCommunitiesWithoutPostalCommunities(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 1, e.CountPoliticalCommunitiesWithoutPostalCommunities())
}

func TestWithoutPostalCommunities_PartitionsPoliticalCommunities(t *testing.T) {
	m := normalizer.Build(geotest.PoliticalRows(), geotest.PostalRows())
	e := New(m)

	referenced := make(map[string]struct{})
	for _, p := range m.PostalCommunities() {
		for _, pc := range p.PoliticalCommunities {
			referenced[pc.Number] = struct{}{}
		}
	}

	assert.Equal(t, len(m.PoliticalCommunities()),
		e.CountPoliticalCommunitiesWithoutPostalCommunities()+len(referenced))
}

func TestCountCantons_MatchesDistinctRawCodes(t *testing.T) {
	rows := geotest.PoliticalRows()
	codes := make(map[string]struct{})
	for _, row := range rows {
		codes[row.CantonCode] = struct{}{}
	}

	e := New(normalizer.Build(rows, geotest.PostalRows()))
	assert.Equal(t, len(codes), e.CountCantons())
}

func TestCountsPerCanton_MatchRawRows(t *testing.T) {
	rows := geotest.PoliticalRows()
	e := New(normalizer.Build(rows, nil))

	want := make(map[string]int)
	for _, row := range rows {
		want[row.CantonCode]++
	}
	for code, n := range want {
		got, err := e.CountPoliticalCommunitiesInCanton(code)
		require.NoError(t, err)
		assert.Equal(t, n, got, "canton %s", code)
	}
}

func TestTwoDistrictsInOneCanton(t *testing.T) {
	rows := []models.PoliticalCommunityRow{
		{Number: "261", Name: "Zürich", CantonCode: "ZH", CantonName: "Zürich", DistrictNumber: "101", DistrictName: "Zürich"},
		{Number: "262", Name: "Oberengstringen", CantonCode: "ZH", CantonName: "Zürich", DistrictNumber: "102", DistrictName: "Dietikon"},
	}
	postal := []models.PostalCommunityRow{
		{ZipCode: "8001", Name: "Zürich", CantonCode: "ZH", PoliticalCommunityNumber: "261"},
	}
	e := New(normalizer.Build(rows, postal))

	count, err := e.CountPoliticalCommunitiesInCanton("ZH")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	districts, err := e.CountDistrictsInCanton("ZH")
	require.NoError(t, err)
	assert.Equal(t, 2, districts)

	assert.Equal(t, []string{"Zürich"}, e.DistrictNamesForZipCode("8001"))
	assert.Equal(t, 1, e.CountPoliticalCommunitiesWithoutPostalCommunities())
}

func TestUnlinkedReferencesAreExcludedFromScopedCounts(t *testing.T) {
	zh := &models.Canton{Code: "ZH", Name: "Zürich"}
	d := &models.District{Number: "112", Name: "Bezirk Zürich"}
	m := models.NewModel(
		[]*models.Canton{zh},
		[]*models.District{d},
		[]*models.PoliticalCommunity{
			{Number: "261", Canton: zh, District: d},
			{Number: "262", Canton: zh},
			{Number: "263", District: d},
		},
		nil,
	)
	e := New(m)

	count, err := e.CountPoliticalCommunitiesInCanton("ZH")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	districts, err := e.CountDistrictsInCanton("ZH")
	require.NoError(t, err)
	assert.Equal(t, 1, districts)

	inDistrict, err := e.CountPoliticalCommunitiesInDistrict("112")
	require.NoError(t, err)
	assert.Equal(t, 2, inDistrict)

	assert.Equal(t, 3, e.CountPoliticalCommunitiesWithoutPostalCommunities())
}

func TestEngine_ConcurrentReaders(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := e.CountPoliticalCommunitiesInCanton("ZH")
			assert.NoError(t, err)
			assert.Equal(t, 3, n)
			assert.Len(t, e.DistrictNamesForZipCode("8600"), 2)
		}()
	}
	wg.Wait()
}

func TestHolder(t *testing.T) {
	var h Holder
	assert.Nil(t, h.Load())

	e := newTestEngine(t)
	h.Store(e)
	assert.Same(t, e, h.Load())
}
