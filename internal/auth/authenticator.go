// Package auth signs users in and issues the session tokens that scope
// every ledger query to one household account.
package auth

import (
	"context"

	"github.com/mmynk/casal/internal/models"
)

// Authenticator is the credential check behind AuthService.
type Authenticator interface {
	// Register creates an account. The credential is a plain password.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential before it is stored.
	ValidateCredential(credential string) error

	// User loads an account by id, for session lookups.
	User(ctx context.Context, id string) (*models.User, error)
}
