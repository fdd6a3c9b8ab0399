// Package authz decides whether a user may perform an administrative action.
package authz

import (
	"context"

	"github.com/dalemusser/interviewhub/internal/app/system/apperr"
	"github.com/dalemusser/interviewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserLookup loads a user by id. A missing user is reported as an
// apperr NotFound error.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Decision is the outcome of a role check.
type Decision struct {
	Allowed   bool
	UserFound bool
	UserID    primitive.ObjectID
	Role      string
}

// Err returns nil when the decision allows the action, otherwise an
// Authorization error carrying msg. Unknown users are denied the same way
// as users with the wrong role.
func (d Decision) Err(msg string) error {
	if d.Allowed {
		return nil
	}
	return apperr.Authorization(msg)
}

// Authorizer checks role requirements against the user store.
type Authorizer interface {
	RequireAdmin(ctx context.Context, userID primitive.ObjectID) (Decision, error)
}

// RoleAuthorizer grants access when the stored role matches Role exactly.
type RoleAuthorizer struct {
	Users UserLookup
	Role  string
}

// New returns an Authorizer that requires models.RoleAdmin.
func New(users UserLookup) *RoleAuthorizer {
	return &RoleAuthorizer{Users: users, Role: models.RoleAdmin}
}

// RequireAdmin looks userID up and reports whether it holds the admin role.
// Store failures other than a missing user are returned as errors.
func (a *RoleAuthorizer) RequireAdmin(ctx context.Context, userID primitive.ObjectID) (Decision, error) {
	d := Decision{UserID: userID}
	u, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return d, nil
		}
		return d, err
	}
	d.UserFound = true
	d.Role = u.Role
	d.Allowed = u.Role == a.Role
	return d, nil
}
