package v1

import (
	"github.com/gin-gonic/gin"

	"tabangi/internal/infrastructure/auth"
	chathttp "tabangi/internal/pkg/chat/presentation/http"
	profilehttp "tabangi/internal/pkg/profile/presentation/http"
)

// Deps aggregates the per-subsystem dependencies assembled in main.
type Deps struct {
	JWTSecret string
	Chat      chathttp.Deps
	Profile   profilehttp.Deps
}

// RegisterRoutes mounts all version 1 API routes under /api/v1. Most endpoints
// require an authenticated user; the inbox resolves the user when a token is
// present and renders empty output otherwise.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")

	open := v1.Group("")
	open.Use(auth.OptionalUser(deps.JWTSecret))
	chathttp.RegisterOptionalRoutes(open, deps.Chat)

	secured := v1.Group("")
	secured.Use(auth.RequireUser(deps.JWTSecret))
	chathttp.RegisterRoutes(secured, deps.Chat)
	profilehttp.RegisterRoutes(secured, deps.Profile)
}
