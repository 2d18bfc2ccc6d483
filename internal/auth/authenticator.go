// Package auth issues and verifies session tokens and user credentials.
package auth

import (
	"context"

	"github.com/mmynk/costcircle/internal/models"
)

// Authenticator registers and verifies users. Password is the only
// credential type today; the interface keeps the service layer unaware of it.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
