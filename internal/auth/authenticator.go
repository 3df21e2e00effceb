// Package auth implements account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/smartsplit/internal/models"
)

// Authenticator registers and verifies accounts. PasswordAuthenticator is the
// only implementation today.
type Authenticator interface {
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
	ValidateCredential(credential string) error
}
