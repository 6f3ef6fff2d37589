package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/service"
)

const (
	// SessionCookie names the cookie carrying the form UI session id.
	SessionCookie = "questbank_session"

	// ContextKeySessionID is the Gin context key for the resolved session id.
	ContextKeySessionID = "session_id"
)

// EnsureSession resolves the UI session from its cookie, starting a new session when the
// cookie is absent or its state has expired.
func EnsureSession(sessions *service.SessionService, maxAgeSeconds int, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			_, err := sessions.Get(ctx, id)
			if err == nil {
				c.Set(ContextKeySessionID, id)
				c.Next()
				return
			}
			if !errors.Is(err, repository.ErrSessionNotFound) {
				log.Error().Err(err).Str("session_id", id).Msg("Session lookup failed")
				c.String(http.StatusServiceUnavailable, "Sessão indisponível. Tente novamente.")
				c.Abort()
				return
			}
		}

		state, err := sessions.Create(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create session")
			c.String(http.StatusServiceUnavailable, "Sessão indisponível. Tente novamente.")
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, state.ID, maxAgeSeconds, "/", "", false, true)
		c.Set(ContextKeySessionID, state.ID)
		c.Next()
	}
}

// GetSessionID returns the session id resolved by EnsureSession.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
