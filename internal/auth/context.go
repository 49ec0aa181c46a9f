package auth

import "context"

// Roles stored alongside the identity-provider principal.
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleCashier      = "cashier"
	RoleDriver       = "driver"
	RoleStockManager = "stock-manager"
	RoleCustomer     = "customer"
)

// UserContext is the session principal resolved from the identity provider
// plus the role looked up in the document store.
type UserContext struct {
	UserID        string
	Role          string
	EmailVerified bool
}

type ctxKey struct{}

func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func GetUser(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(ctxKey{}).(UserContext)
	return user, ok
}

// IsBackOffice reports whether the principal may mutate catalog and pricing
// state.
func IsBackOffice(ctx context.Context) bool {
	user, ok := GetUser(ctx)
	if !ok {
		return false
	}
	switch user.Role {
	case RoleAdmin, RoleManager, RoleStockManager:
		return true
	}
	return false
}
