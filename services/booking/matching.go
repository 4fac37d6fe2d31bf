package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	contractorRepo "neatly/database/repository/contractor"
	"neatly/models"
	"neatly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DistanceResolver estimates the distance in miles between two UK postcodes.
// Real geocoding is an external collaborator; implementations only need to
// satisfy this contract.
type DistanceResolver interface {
	Distance(postcodeA, postcodeB string) (float64, error)
}

// SearchQuery describes a cleaner search.
type SearchQuery struct {
	Postcode    string
	ServiceType models.ServiceType
	RadiusMiles float64 // 0 means the configured default
	Limit       int     // 0 means the configured default
}

// MatchingService finds and ranks eligible cleaners for a client request.
type MatchingService interface {
	SearchCleaners(ctx context.Context, q SearchQuery) ([]models.CleanerSummary, error)
}

// DefaultMatchingService implements MatchingService over the contractor
// repository with search results cached briefly in Redis.
type DefaultMatchingService struct {
	ContractorRepo contractorRepo.ContractorRepository
	Resolver       DistanceResolver
	CacheClient    *redis.Client
	DefaultRadius  float64
	DefaultLimit   int
	Logger         *zap.Logger
}

const searchCacheTTL = 2 * time.Minute

// SearchCleaners filters contractors by service, suspension and radius, then
// ranks by ascending distance, descending rating, descending experience.
// An empty result is a valid answer, never an error.
func (s *DefaultMatchingService) SearchCleaners(ctx context.Context, q SearchQuery) ([]models.CleanerSummary, error) {
	if !utils.ValidUKPostcode(q.Postcode) {
		return nil, NewValidationError("postcode", "malformed UK postcode")
	}
	if q.RadiusMiles <= 0 {
		q.RadiusMiles = s.DefaultRadius
	}
	if q.Limit <= 0 {
		q.Limit = s.DefaultLimit
	}

	if cached, ok := s.fromCache(ctx, q); ok {
		return cached, nil
	}

	profiles, err := s.ContractorRepo.ListByService(ctx, q.ServiceType)
	if err != nil {
		return nil, err
	}

	var candidates []models.CleanerSummary
	for _, p := range profiles {
		dist, err := s.Resolver.Distance(q.Postcode, p.Postcode)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Debug("skipping contractor with unresolvable postcode",
					zap.String("uid", p.UID), zap.Error(err))
			}
			continue
		}
		// Respect both the client's search radius and the contractor's own
		// travel radius.
		if dist > q.RadiusMiles || (p.RadiusMiles > 0 && dist > p.RadiusMiles) {
			continue
		}
		candidates = append(candidates, models.CleanerSummary{
			UID:           p.UID,
			Name:          p.Name,
			Bio:           p.Bio,
			HourlyRate:    p.HourlyRate,
			Rating:        p.Rating,
			TotalJobs:     p.TotalJobs,
			DistanceMiles: dist,
			Services:      p.ServicesOffered,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceMiles != candidates[j].DistanceMiles {
			return candidates[i].DistanceMiles < candidates[j].DistanceMiles
		}
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		return candidates[i].TotalJobs > candidates[j].TotalJobs
	})

	if len(candidates) > q.Limit {
		candidates = candidates[:q.Limit]
	}
	if candidates == nil {
		candidates = []models.CleanerSummary{}
	}

	s.toCache(ctx, q, candidates)
	return candidates, nil
}

// searchCacheKey includes every query field that shapes the result set, so
// searches with different radii or limits never share an entry.
func searchCacheKey(q SearchQuery) string {
	return fmt.Sprintf("search:%s:%s:%g:%d",
		q.ServiceType, utils.PostcodeDistrict(q.Postcode), q.RadiusMiles, q.Limit)
}

func (s *DefaultMatchingService) fromCache(ctx context.Context, q SearchQuery) ([]models.CleanerSummary, bool) {
	if s.CacheClient == nil {
		return nil, false
	}
	data, err := s.CacheClient.Get(ctx, searchCacheKey(q)).Result()
	if err != nil {
		return nil, false
	}
	var cached []models.CleanerSummary
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (s *DefaultMatchingService) toCache(ctx context.Context, q SearchQuery, results []models.CleanerSummary) {
	if s.CacheClient == nil {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.CacheClient.Set(ctx, searchCacheKey(q), data, searchCacheTTL).Err(); err != nil && s.Logger != nil {
		s.Logger.Debug("failed to cache search results", zap.Error(err))
	}
}
