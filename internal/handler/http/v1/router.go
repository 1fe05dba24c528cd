package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registra todos los endpoints del API v1.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
		auth.POST("/logout", SessionAuthMiddleware(h.sessions, h.logger), h.logout)
	}

	// Endpoints del panel; todos requieren sesión
	protected := api.Group("")
	protected.Use(SessionAuthMiddleware(h.sessions, h.logger))
	{
		incidents := protected.Group("/incidentes")
		{
			incidents.GET("", h.listIncidents)
			incidents.GET("/cola", h.pendingQueue)
			incidents.GET("/mis-casos", h.myCases)
			incidents.GET("/:id", h.getIncident)
			incidents.GET("/:id/historial", h.getHistory)
			incidents.PATCH("/:id/asignar", h.assignIncident)
			incidents.PATCH("/:id/resolver", h.resolveIncident)
		}

		// Directorio de trabajadores para la vista del supervisor
		protected.GET("/usuarios", h.listWorkers)

		protected.GET("/reportes/resumen", h.reportSummary)

		// Flujo de eventos para refrescar los paneles abiertos
		protected.GET("/ws", h.incidentEvents)
	}

	// Health-check sin autenticación
	api.GET("/system/health", h.healthCheck)
}
