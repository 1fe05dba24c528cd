package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alerta-utec/incident_dashboard/internal/backend"
	"github.com/alerta-utec/incident_dashboard/internal/config"
	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/alerta-utec/incident_dashboard/internal/service"
	"github.com/alerta-utec/incident_dashboard/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	dashboardService service.DashboardService
	sessions         service.SessionStore
	hub              *ws.Hub
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(dashboardService service.DashboardService, sessions service.SessionStore, hub *ws.Hub, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		dashboardService: dashboardService,
		sessions:         sessions,
		hub:              hub,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// @Summary Log in
// @Description Authenticate against the incident backend and open a dashboard session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, user, err := h.dashboardService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: sessionID, User: ModelToUserResponse(user)})
}

// @Summary Register
// @Description Register a new user against the incident backend and open a session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Registration rejected"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, user, err := h.dashboardService.Register(c.Request.Context(), input.Nombre, input.Email, input.Password, input.Codigo)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: sessionID, User: ModelToUserResponse(user)})
}

// @Summary Log out
// @Description Invalidate the current dashboard session.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	log := h.logger.WithField("method", "logout")

	if err := h.dashboardService.Logout(c.Request.Context(), currentSessionID(c)); err != nil {
		log.WithError(err).Error("Failed to delete session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List incidents
// @Description Paginated, filtered incident listing. Structured filters are resolved upstream; free-text search is applied locally.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param estado query string false "Status filter"
// @Param urgencia query string false "Urgency filter"
// @Param tipo query string false "Type filter"
// @Param fechaDesde query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param fechaHasta query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param busqueda query string false "Free-text search over title, description and id"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {object} IncidentListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	filters, page, pageSize := h.listParams(c)

	result, err := h.dashboardService.ListIncidents(c.Request.Context(), currentSession(c), filters, page, pageSize)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, PageToListResponse(result))
}

// @Summary Pending queue
// @Description Unassigned pending incidents ranked by urgency (critica > alta > media > baja).
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {object} IncidentListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/cola [get]
func (h *Handler) pendingQueue(c *gin.Context) {
	log := h.logger.WithField("method", "pendingQueue")
	filters, page, pageSize := h.listParams(c)

	result, err := h.dashboardService.PendingQueue(c.Request.Context(), currentSession(c), filters, page, pageSize)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, PageToListResponse(result))
}

// @Summary My cases
// @Description Incidents assigned to the session user, matched by name, email or id.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {object} IncidentListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/mis-casos [get]
func (h *Handler) myCases(c *gin.Context) {
	log := h.logger.WithField("method", "myCases")
	filters, page, pageSize := h.listParams(c)

	result, err := h.dashboardService.MyCases(c.Request.Context(), currentSession(c), filters, page, pageSize)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, PageToListResponse(result))
}

// @Summary Get incident by ID
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.dashboardService.GetIncident(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(*incident))
}

// @Summary Incident history
// @Description Chronological timeline of an incident. Falls back to a locally synthesized timeline when the upstream history endpoint fails.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {array} TimelineEventResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/{id}/historial [get]
func (h *Handler) getHistory(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getHistory").WithField("id", id)

	events, err := h.dashboardService.GetHistory(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToTimelineResponses(events))
}

// @Summary Assign incident
// @Description Assign the incident to the session user and notify every open dashboard.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Incident already assigned"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/{id}/asignar [patch]
func (h *Handler) assignIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "assignIncident").WithField("id", id)

	incident, err := h.dashboardService.AssignIncident(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(*incident))
}

// @Summary Resolve incident
// @Description Mark the incident as resolved and notify every open dashboard.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param resolution body ResolveIncidentRequest false "Resolution details"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /incidentes/{id}/resolver [patch]
func (h *Handler) resolveIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)

	var input ResolveIncidentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			log.WithError(err).Warn("Failed to bind JSON")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := h.validate.Struct(input); err != nil {
			log.WithError(err).Warn("Validation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	incident, err := h.dashboardService.ResolveIncident(c.Request.Context(), currentSession(c), id, input.Solucion, input.TiempoResolucion)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(*incident))
}

// @Summary List workers
// @Description Directory of assignable workers, filtered to the trabajador role.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} WorkerListResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /usuarios [get]
func (h *Handler) listWorkers(c *gin.Context) {
	log := h.logger.WithField("method", "listWorkers")

	workers, err := h.dashboardService.ListWorkers(c.Request.Context(), currentSession(c))
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToWorkerListResponse(workers))
}

// @Summary Report summary
// @Description Aggregated dashboard summary: totals, pending, critical cases, average resolution time, distributions by type and location.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param estado query string false "Status filter"
// @Param tipo query string false "Type filter"
// @Param fechaDesde query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param fechaHasta query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success 200 {object} models.ReportData
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Upstream backend error"
// @Router /reportes/resumen [get]
func (h *Handler) reportSummary(c *gin.Context) {
	log := h.logger.WithField("method", "reportSummary")
	filters, _, _ := h.listParams(c)

	report, err := h.dashboardService.ReportSummary(c.Request.Context(), currentSession(c), filters)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listParams(c *gin.Context) (models.FilterState, int, int) {
	var filters models.FilterState
	// los filtros llegan por query string; un bind fallido equivale a no filtrar
	_ = c.ShouldBindQuery(&filters)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	return filters, page, pageSize
}

// renderError traduce los errores tipados del backend a respuestas HTTP con
// mensajes aptos para el usuario. Un 401 upstream invalida también la
// sesión local: para el panel es una sesión caducada.
func (h *Handler) renderError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		log.Warn("Invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciales inválidas"})
	case errors.Is(err, backend.ErrSessionExpired):
		log.Warn("Upstream session expired")
		if sessionID := currentSessionID(c); sessionID != "" {
			if delErr := h.dashboardService.Logout(c.Request.Context(), sessionID); delErr != nil {
				log.WithError(delErr).Warn("Failed to delete expired session")
			}
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sesión expirada"})
	case errors.Is(err, backend.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "el incidente no fue encontrado"})
	case errors.Is(err, backend.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "este incidente ya está asignado a otro trabajador"})
	default:
		log.WithError(err).Error("Upstream backend request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudo contactar al servidor de incidentes"})
	}
}
