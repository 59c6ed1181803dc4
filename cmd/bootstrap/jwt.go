package bootstrap

import (
	"hotel-reservation/internal/handler/middleware"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		fx.Annotate(
			NewTokenVerifier,
			fx.As(new(middleware.TokenValidator)),
		),
	),
)

// トークンの発行は認証サービス側。ここでは検証のみ
func NewTokenVerifier(cfg config.Config) *jwt.Verifier {
	return jwt.NewVerifier(cfg.JWT)
}
