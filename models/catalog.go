package models

import "time"

// Branch is a physical salon location.
type Branch struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Address   string    `bson:"address" json:"address"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Timezone  string    `bson:"timezone" json:"timezone"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Service is a bookable treatment. Price is in minor units.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Price           int64     `bson:"price" json:"price"`
	Currency        string    `bson:"currency" json:"currency"`
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// Stylist works at one branch and offers a set of services.
type Stylist struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	BranchID    string    `bson:"branch_id" json:"branch_id"`
	Bio         string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialties []string  `bson:"specialties,omitempty" json:"specialties,omitempty"`
	ServiceIDs  []string  `bson:"service_ids" json:"service_ids"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Offers reports whether the stylist performs serviceID.
func (s Stylist) Offers(serviceID string) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// StylistFilter narrows stylist listings.
type StylistFilter struct {
	BranchID  string
	ServiceID string
}
