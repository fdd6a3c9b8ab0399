// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleAdmin is the only role this service distinguishes.
const RoleAdmin = "ADMIN"

// User is the read-only view of an account. Users are written by the
// authentication service; this app only looks them up.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
	Role  string             `bson:"role" json:"role"`
}
