package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site-backend/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the authenticated session to the context
func ctxWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the authenticated session from the context
func ctxGetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// ctxGetUserID returns the id of the signed-in user, if it parses.
func ctxGetUserID(ctx context.Context) *uuid.UUID {
	claims, ok := ctxGetClaims(ctx)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
