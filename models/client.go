package models

import "time"

// ClientProfile is a client's preference record. It is read at booking
// creation to pre-populate special requirements; nothing enforces it.
type ClientProfile struct {
	UID                  string        `bson:"uid" json:"uid"`
	PreferredServices    []ServiceType `bson:"preferred_services,omitempty" json:"preferred_services,omitempty"`
	PreferredTimes       []string      `bson:"preferred_times,omitempty" json:"preferred_times,omitempty"`
	SpecialRequirements  []string      `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	PropertyType         string        `bson:"property_type,omitempty" json:"property_type,omitempty"`
	PropertySizeBedrooms int           `bson:"property_size_bedrooms,omitempty" json:"property_size_bedrooms,omitempty"`
	HasPets              bool          `bson:"has_pets" json:"has_pets"`
	AccessNotes          string        `bson:"access_notes,omitempty" json:"access_notes,omitempty"`
	FCMToken             string        `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at"`
}
