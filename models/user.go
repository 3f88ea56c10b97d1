// models/user.go
package models

import "time"

const (
	RoleClient  = "client"
	RoleStylist = "stylist"
	RoleAdmin   = "admin"
)

// User represents a platform user.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PhoneNumber  string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
