// AngelaMos | 2026
// access.go

package access

import (
	"context"
	"slices"
)

const (
	RoleMember    = "Member"
	RoleAdmin     = "Admin"
	RoleModerator = "Moderator"
	RoleVIP       = "VIP"
)

// AllRoles is the seeded role set, in creation order.
var AllRoles = []string{RoleMember, RoleAdmin, RoleModerator, RoleVIP}

// Policies name the role sets that unlock a gated operation. A caller
// satisfies a policy by holding any one of its roles.
var (
	RequireAdminRole  = []string{RoleAdmin}
	ModeratePhotoRole = []string{RoleAdmin, RoleModerator}
	VipOnly           = []string{RoleVIP}
)

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID       int64
	Username string
	Roles    []string
}

func (c Caller) IsAuthenticated() bool {
	return c.ID > 0
}

// Owns reports whether the caller is the owner of a resource.
func (c Caller) Owns(ownerID int64) bool {
	return c.IsAuthenticated() && c.ID == ownerID
}

// HasRole is the capability check run at the top of every gated operation.
func HasRole(c Caller, required ...string) bool {
	if !c.IsAuthenticated() {
		return false
	}
	for _, role := range required {
		if slices.Contains(c.Roles, role) {
			return true
		}
	}
	return false
}

func IsKnownRole(role string) bool {
	return slices.Contains(AllRoles, role)
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey{}).(Caller); ok {
		return c
	}
	return Caller{}
}
