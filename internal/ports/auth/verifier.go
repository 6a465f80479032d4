package auth

import "context"

// AuthVerifier valida un bearer token y devuelve claims.
// La implementación concreta vive en adapters (p.ej. tokenapi).
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
