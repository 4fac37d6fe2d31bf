package models

import "time"

// ContractorProfile is a cleaner's service-offering configuration.
// UID shares the identity space with the user record.
type ContractorProfile struct {
	UID             string              `bson:"uid" json:"uid"`
	Name            string              `bson:"name" json:"name"`
	Bio             string              `bson:"bio,omitempty" json:"bio,omitempty"`
	Postcode        string              `bson:"postcode" json:"postcode"`
	HourlyRate      float64             `bson:"hourly_rate" json:"hourly_rate"`
	RadiusMiles     float64             `bson:"radius_miles" json:"radius_miles"`
	ServicesOffered []ServiceType       `bson:"services_offered" json:"services_offered"`
	Availability    map[string][]string `bson:"availability,omitempty" json:"availability,omitempty"` // weekday -> slot tags
	Rating          float64             `bson:"rating" json:"rating"` // derived, 0-5
	TotalJobs       int                 `bson:"total_jobs" json:"total_jobs"`
	AcceptsPets     bool                `bson:"accepts_pets" json:"accepts_pets"`
	EcoFriendly     bool                `bson:"eco_friendly" json:"eco_friendly"`
	Suspended       bool                `bson:"suspended" json:"suspended"`
	FCMToken        string              `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// Offers reports whether the contractor lists the given service type.
func (p *ContractorProfile) Offers(st ServiceType) bool {
	for _, s := range p.ServicesOffered {
		if s == st {
			return true
		}
	}
	return false
}

// CleanerSummary is the ranked search result returned by the matcher.
type CleanerSummary struct {
	UID           string        `json:"uid"`
	Name          string        `json:"name"`
	Bio           string        `json:"bio,omitempty"`
	HourlyRate    float64       `json:"hourly_rate"`
	Rating        float64       `json:"rating"`
	TotalJobs     int           `json:"total_jobs"`
	DistanceMiles float64       `json:"distance_miles"`
	Services      []ServiceType `json:"services"`
}
