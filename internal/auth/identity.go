package auth

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleClient = "client"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// Identity is the opaque caller identity the engine consumes. Who issued it
// and how it was authenticated is not this service's concern.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
	System bool
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Contact carries the user-directory details needed to notify a renter.
// The directory itself is owned by the identity subsystem; this service
// only reads it.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// SystemIdentity is the internal actor used by scheduled jobs.
func SystemIdentity() Identity {
	return Identity{System: true}
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
