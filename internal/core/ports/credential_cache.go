package ports

import (
	"context"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// CredentialCache remembers successful password verifications so repeated
// Basic-auth requests can skip the hash comparison. Keys are opaque
// fingerprints computed by the caller.
type CredentialCache interface {
	// Lookup returns ok=false on a miss.
	Lookup(ctx context.Context, fingerprint string) (role domain.Role, ok bool, err error)
	Store(ctx context.Context, fingerprint string, role domain.Role) error
}
