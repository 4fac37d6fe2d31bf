package booking

import (
	"context"
	"testing"

	"neatly/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatcher(contractors *memContractorRepo) *DefaultMatchingService {
	return &DefaultMatchingService{
		ContractorRepo: contractors,
		Resolver:       LondonPostcodeResolver{},
		DefaultRadius:  10,
		DefaultLimit:   20,
	}
}

func addContractor(t *testing.T, repo *memContractorRepo, p models.ContractorProfile) {
	t.Helper()
	if len(p.ServicesOffered) == 0 {
		p.ServicesOffered = []models.ServiceType{models.ServiceRegular}
	}
	if p.RadiusMiles == 0 {
		p.RadiusMiles = 15
	}
	require.NoError(t, repo.Upsert(context.Background(), &p))
}

func TestSearchCleanersRanking(t *testing.T) {
	contractors := newMemContractorRepo()
	// SW1A 1AA searches: same district 1mi, same area 3mi, SE cross-town 6mi.
	addContractor(t, contractors, models.ContractorProfile{UID: "far-good", Postcode: "SE1 1AA", Rating: 5, TotalJobs: 200})
	addContractor(t, contractors, models.ContractorProfile{UID: "near-low", Postcode: "SW1A 2AB", Rating: 3.5, TotalJobs: 10})
	addContractor(t, contractors, models.ContractorProfile{UID: "near-high", Postcode: "SW1A 2AA", Rating: 4.8, TotalJobs: 50})
	addContractor(t, contractors, models.ContractorProfile{UID: "mid", Postcode: "SW9 1AA", Rating: 4.9, TotalJobs: 80})

	results, err := newMatcher(contractors).SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Ascending distance first, then rating breaks the tie at 1 mile.
	assert.Equal(t, "near-high", results[0].UID)
	assert.Equal(t, "near-low", results[1].UID)
	assert.Equal(t, "mid", results[2].UID)
	assert.Equal(t, "far-good", results[3].UID)
}

func TestSearchCleanersTieBreakOnJobs(t *testing.T) {
	contractors := newMemContractorRepo()
	addContractor(t, contractors, models.ContractorProfile{UID: "rookie", Postcode: "SW1A 2AA", Rating: 4.5, TotalJobs: 5})
	addContractor(t, contractors, models.ContractorProfile{UID: "veteran", Postcode: "SW1A 2AB", Rating: 4.5, TotalJobs: 300})

	results, err := newMatcher(contractors).SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "veteran", results[0].UID)
}

func TestSearchCleanersFilters(t *testing.T) {
	contractors := newMemContractorRepo()
	addContractor(t, contractors, models.ContractorProfile{UID: "deep-only", Postcode: "SW1A 2AA",
		ServicesOffered: []models.ServiceType{models.ServiceDeep}})
	addContractor(t, contractors, models.ContractorProfile{UID: "suspended", Postcode: "SW1A 2AA", Suspended: true})
	addContractor(t, contractors, models.ContractorProfile{UID: "tiny-radius", Postcode: "SE1 1AA", RadiusMiles: 2})
	addContractor(t, contractors, models.ContractorProfile{UID: "match", Postcode: "SW1A 2AA"})

	results, err := newMatcher(contractors).SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
	})
	require.NoError(t, err)
	// deep-only offers the wrong service, suspended is excluded, and
	// tiny-radius will not travel 6 miles.
	require.Len(t, results, 1)
	assert.Equal(t, "match", results[0].UID)
}

func TestSearchCleanersRadiusAndLimit(t *testing.T) {
	contractors := newMemContractorRepo()
	addContractor(t, contractors, models.ContractorProfile{UID: "near", Postcode: "SW1A 2AA"})
	addContractor(t, contractors, models.ContractorProfile{UID: "far", Postcode: "SE1 1AA"})

	m := newMatcher(contractors)

	// A 2-mile radius drops the 6-mile candidate.
	results, err := m.SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
		RadiusMiles: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].UID)

	// Limit truncates after ranking.
	results, err = m.SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
		Limit:       1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].UID)
}

func TestSearchCleanersEmptyResultIsNotAnError(t *testing.T) {
	results, err := newMatcher(newMemContractorRepo()).SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
	})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func newCachedMatcher(t *testing.T, contractors *memContractorRepo) *DefaultMatchingService {
	t.Helper()
	mr := miniredis.RunT(t)
	m := newMatcher(contractors)
	m.CacheClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return m
}

func TestSearchCleanersCacheServesRepeatQueries(t *testing.T) {
	contractors := newMemContractorRepo()
	addContractor(t, contractors, models.ContractorProfile{UID: "near", Postcode: "SW1A 2AA"})

	m := newCachedMatcher(t, contractors)
	q := SearchQuery{Postcode: "SW1A 1AA", ServiceType: models.ServiceRegular}

	first, err := m.SearchCleaners(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A contractor added after the first search stays invisible until the
	// cached entry expires.
	addContractor(t, contractors, models.ContractorProfile{UID: "late", Postcode: "SW1A 2AB"})

	second, err := m.SearchCleaners(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, "near", second[0].UID)
}

func TestSearchCleanersCacheKeyedByRadiusAndLimit(t *testing.T) {
	contractors := newMemContractorRepo()
	addContractor(t, contractors, models.ContractorProfile{UID: "near", Postcode: "SW1A 2AA"})
	addContractor(t, contractors, models.ContractorProfile{UID: "far", Postcode: "SE1 1AA"})

	m := newCachedMatcher(t, contractors)

	wide, err := m.SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
		RadiusMiles: 50,
	})
	require.NoError(t, err)
	require.Len(t, wide, 2)

	// A narrower search for the same district must not reuse the wide entry.
	narrow, err := m.SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
		RadiusMiles: 2,
	})
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "near", narrow[0].UID)

	// Likewise a capped search gets its own entry instead of the full set.
	capped, err := m.SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "SW1A 1AA",
		ServiceType: models.ServiceRegular,
		RadiusMiles: 50,
		Limit:       1,
	})
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, "near", capped[0].UID)
}

func TestSearchCleanersRejectsBadPostcode(t *testing.T) {
	_, err := newMatcher(newMemContractorRepo()).SearchCleaners(context.Background(), SearchQuery{
		Postcode:    "12345",
		ServiceType: models.ServiceRegular,
	})
	assert.ErrorAs(t, err, new(*ValidationError))
}
