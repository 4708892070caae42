package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/Narutostha/sanambar/internal/handler"
	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/service/auth"
)

const contextClaimsKey = "authClaims"

// AuthMiddleware is the admin session gate. Each live session gets a
// Gate that resolves once against the database and then tracks
// session-change notifications, so a revoked session is rejected
// without waiting for its cache entry to age out. Evicted gates are
// closed so their subscriptions do not pile up.
type AuthMiddleware struct {
	authService *auth.Service
	gates       *cache.Cache
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	gates := cache.New(15*time.Minute, 30*time.Minute)
	gates.OnEvicted(func(_ string, value interface{}) {
		if gate, ok := value.(*auth.Gate); ok {
			gate.Close()
		}
	})

	return &AuthMiddleware{
		authService: authService,
		gates:       gates,
	}
}

// Authenticate verifies the bearer token and consults the session gate.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ParseAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		gate := m.gateFor(c, claims)

		select {
		case <-gate.Resolved():
		case <-c.Request.Context().Done():
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("session check cancelled"))
			c.Abort()
			return
		}

		if !gate.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("session expired or revoked"))
			c.Abort()
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

func (m *AuthMiddleware) gateFor(c *gin.Context, claims *model.TokenClaims) *auth.Gate {
	key := claims.SessionID.String()
	if cached, ok := m.gates.Get(key); ok {
		return cached.(*auth.Gate)
	}

	// Two requests may race here; the loser's gate is closed on
	// eviction like any other.
	gate := auth.NewGate(c.Request.Context(), m.authService, claims.SessionID)
	if gate.LookupFailed() {
		// A gate that never saw the session row answers this request
		// only; caching it would lock the session out until eviction.
		gate.Close()
		return gate
	}
	m.gates.SetDefault(key, gate)
	return gate
}

// ClaimsFromContext returns the claims Authenticate stored, or nil.
func ClaimsFromContext(c *gin.Context) *model.TokenClaims {
	value, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
