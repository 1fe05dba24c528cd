package v1

import (
	"net/http"
	"strings"

	"github.com/alerta-utec/incident_dashboard/internal/service"
	"github.com/alerta-utec/incident_dashboard/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	sessionContextKey   = "session"
	sessionIDContextKey = "sessionID"
)

// SessionAuthMiddleware resuelve la sesión del encabezado Authorization y
// la inyecta en el contexto. Una sesión ausente o caducada corta con 401;
// el cliente debe limpiar sus credenciales y volver al inicio de sesión.
func SessionAuthMiddleware(sessions service.SessionStore, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := bearerToken(c)
		if sessionID == "" {
			log.Warn("Session token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sesión requerida"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			log.WithError(err).Error("Failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if sess == nil {
			log.Warn("Unknown or expired session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sesión expirada"})
			return
		}

		c.Set(sessionContextKey, sess)
		c.Set(sessionIDContextKey, sessionID)
		c.Next()
	}
}

// bearerToken extrae el token del encabezado Authorization o, para la
// conexión WebSocket del navegador, del parámetro de consulta token.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// currentSession devuelve la sesión inyectada por el middleware.
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

func currentSessionID(c *gin.Context) string {
	return c.GetString(sessionIDContextKey)
}
