//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper signs tokens the way the external auth service would.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewVerifier(h.cfg).Sign(uuid.NewString(), role, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) AdminToken(t *testing.T) string {
	t.Helper()
	return h.GenerateToken(t, jwt.RoleAdmin)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewVerifier(h.cfg).Sign(uuid.NewString(), role, -time.Hour)
	require.NoError(t, err)
	return token
}
