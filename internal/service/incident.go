package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/backend"
	"github.com/alerta-utec/incident_dashboard/internal/config"
	"github.com/alerta-utec/incident_dashboard/internal/match"
	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/alerta-utec/incident_dashboard/internal/notify"
	"github.com/alerta-utec/incident_dashboard/internal/query"
	"github.com/alerta-utec/incident_dashboard/internal/session"
	"github.com/alerta-utec/incident_dashboard/internal/timeline"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IncidentBackend define el contrato con el cliente del backend de incidentes.
type IncidentBackend interface {
	ListIncidents(ctx context.Context, token string, filters models.FilterState) ([]models.Incident, error)
	ListUsers(ctx context.Context, token string) ([]models.User, error)
	GetHistory(ctx context.Context, token, incidentID string) ([]models.TimelineEvent, error)
	AssignIncident(ctx context.Context, token, incidentID string, req backend.AssignRequest) (*models.Incident, error)
	ResolveIncident(ctx context.Context, token, incidentID string, req backend.ResolveRequest) (*models.Incident, error)
	Login(ctx context.Context, email, password string) (*backend.AuthResult, error)
	Register(ctx context.Context, nombre, email, password, codigo string) (*backend.AuthResult, error)
}

// IncidentCache define el contrato con la caché de incidentes.
type IncidentCache interface {
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	SetIncident(ctx context.Context, incident *models.Incident) error
	InvalidateIncident(ctx context.Context, id string) error
}

// SessionStore define el contrato con el almacén de sesiones.
type SessionStore interface {
	Create(ctx context.Context, token string, user models.User) (string, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// IncidentPage es una ventana paginada del listado filtrado.
type IncidentPage struct {
	Incidentes []models.Incident `json:"incidentes"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Total      int               `json:"total"`
}

// DashboardService define la lógica del panel de incidentes.
type DashboardService interface {
	Login(ctx context.Context, email, password string) (string, models.User, error)
	Register(ctx context.Context, nombre, email, password, codigo string) (string, models.User, error)
	Logout(ctx context.Context, sessionID string) error

	ListIncidents(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error)
	PendingQueue(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error)
	MyCases(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error)
	GetIncident(ctx context.Context, sess *session.Session, id string) (*models.Incident, error)
	GetHistory(ctx context.Context, sess *session.Session, id string) ([]models.TimelineEvent, error)
	AssignIncident(ctx context.Context, sess *session.Session, id string) (*models.Incident, error)
	ResolveIncident(ctx context.Context, sess *session.Session, id string, solucion string, tiempoResolucion *int) (*models.Incident, error)
	ReportSummary(ctx context.Context, sess *session.Session, filters models.FilterState) (*models.ReportData, error)
	ListWorkers(ctx context.Context, sess *session.Session) ([]models.User, error)
}

type dashboardService struct {
	backend   IncidentBackend
	cache     IncidentCache
	sessions  SessionStore
	publisher notify.EventPublisher
	logger    *logrus.Logger
	cfg       *config.Config
	guard     *fetchGuard
}

func NewDashboardService(b IncidentBackend, c IncidentCache, s SessionStore, p notify.EventPublisher, log *logrus.Logger, cfg *config.Config) DashboardService {
	return &dashboardService{
		backend:   b,
		cache:     c,
		sessions:  s,
		publisher: p,
		logger:    log,
		cfg:       cfg,
		guard:     newFetchGuard(),
	}
}

// Login autentica contra el backend y abre una sesión propia.
func (s *dashboardService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "Login", "email": email})
	log.Info("Attempting login against upstream backend")

	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		log.WithError(err).Warn("Upstream login failed")
		return "", models.User{}, err
	}

	sessionID, err := s.sessions.Create(ctx, result.Token, result.User)
	if err != nil {
		log.WithError(err).Error("Failed to create session")
		return "", models.User{}, fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", result.User.ID).Info("Login successful")
	return sessionID, result.User, nil
}

// Register da de alta un usuario y abre sesión directamente.
func (s *dashboardService) Register(ctx context.Context, nombre, email, password, codigo string) (string, models.User, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "Register", "email": email})
	log.Info("Attempting registration against upstream backend")

	result, err := s.backend.Register(ctx, nombre, email, password, codigo)
	if err != nil {
		log.WithError(err).Warn("Upstream registration failed")
		return "", models.User{}, err
	}

	sessionID, err := s.sessions.Create(ctx, result.Token, result.User)
	if err != nil {
		log.WithError(err).Error("Failed to create session")
		return "", models.User{}, fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", result.User.ID).Info("Registration successful")
	return sessionID, result.User, nil
}

func (s *dashboardService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("service: could not delete session: %w", err)
	}
	return nil
}

// ListIncidents obtiene el listado con los filtros estructurados resueltos
// por el backend, la búsqueda libre aplicada localmente y la ventana
// paginada al final.
func (s *dashboardService) ListIncidents(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	log := s.logger.WithFields(logrus.Fields{
		"service":   "dashboard",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing incidents")

	incidents, err := s.fetchFiltered(ctx, sess, filters)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from backend")
		return nil, err
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return paged(incidents, page, pageSize), nil
}

// PendingQueue devuelve los incidentes pendientes sin asignar, ordenados
// por urgencia descendente antes de paginar.
func (s *dashboardService) PendingQueue(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "PendingQueue"})
	log.Info("Listing pending queue")

	filters.Estado = string(models.StatusPendiente)
	incidents, err := s.fetchFiltered(ctx, sess, filters)
	if err != nil {
		log.WithError(err).Error("Failed to list pending incidents from backend")
		return nil, err
	}

	pending := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if !inc.Asignado() {
			pending = append(pending, inc)
		}
	}
	query.SortByUrgency(pending)

	log.WithField("count", len(pending)).Info("Pending queue listed successfully")
	return paged(pending, page, pageSize), nil
}

// MyCases devuelve los incidentes asignados al usuario de la sesión, según
// el matcher permisivo de asignación.
func (s *dashboardService) MyCases(ctx context.Context, sess *session.Session, filters models.FilterState, page, pageSize int) (*IncidentPage, error) {
	page, pageSize = normalizePaging(page, pageSize)
	log := s.logger.WithFields(logrus.Fields{
		"service": "dashboard",
		"method":  "MyCases",
		"user_id": sess.User.ID,
	})
	log.Info("Listing my cases")

	// el matcher decide la pertenencia; los filtros estructurados se
	// aplican localmente sobre el subconjunto
	incidents, err := s.backend.ListIncidents(ctx, sess.Token, models.FilterState{})
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from backend")
		return nil, err
	}

	mine := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if match.IsAssignedTo(inc, sess.User) {
			mine = append(mine, inc)
		}
	}
	mine = query.Apply(mine, filters)

	log.WithField("count", len(mine)).Info("My cases listed successfully")
	return paged(mine, page, pageSize), nil
}

// GetIncident busca primero en caché y recurre al listado del backend en
// caso de fallo de caché. El resultado solo se cachea si ninguna petición
// más reciente para ese incidente lo ha invalidado entre tanto.
func (s *dashboardService) GetIncident(ctx context.Context, sess *session.Session, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "GetIncident", "incident_id": id})

	cached, err := s.cache.GetIncident(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Incident cache lookup failed")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	gen := s.guard.begin(id)
	incidents, err := s.backend.ListIncidents(ctx, sess.Token, models.FilterState{})
	if err != nil {
		log.WithError(err).Error("Failed to fetch incidents from backend")
		return nil, err
	}
	for _, inc := range incidents {
		if inc.ID == id {
			if s.guard.current(id) == gen {
				if err := s.cache.SetIncident(ctx, &inc); err != nil {
					log.WithError(err).Warn("Failed to cache incident")
				}
			}
			return &inc, nil
		}
	}
	return nil, backend.ErrNotFound
}

// GetHistory pide el historial al backend; si la petición falla o vuelve
// vacía, sintetiza una línea de tiempo a partir del propio incidente en vez
// de mostrar un historial en blanco.
func (s *dashboardService) GetHistory(ctx context.Context, sess *session.Session, id string) ([]models.TimelineEvent, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "GetHistory", "incident_id": id})
	log.Info("Fetching incident history")

	events, err := s.backend.GetHistory(ctx, sess.Token, id)
	if err == nil && len(events) > 0 {
		return events, nil
	}
	if err != nil {
		log.WithError(err).Warn("History endpoint failed, falling back to synthesized timeline")
	} else {
		log.Info("History endpoint returned no events, falling back to synthesized timeline")
	}

	inc, incErr := s.GetIncident(ctx, sess, id)
	if incErr != nil {
		if err != nil {
			// sin historial remoto ni incidente local del que derivarlo
			return nil, err
		}
		return []models.TimelineEvent{}, nil
	}
	return timeline.Synthesize(*inc), nil
}

// AssignIncident asigna el incidente al usuario de la sesión y publica el
// evento para el resto de paneles.
func (s *dashboardService) AssignIncident(ctx context.Context, sess *session.Session, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dashboard",
		"method":      "AssignIncident",
		"incident_id": id,
		"user_id":     sess.User.ID,
	})
	log.Info("Assigning incident to current user")

	req := backend.AssignRequest{
		AtendidoPor:   sess.User.Nombre,
		AtendidoEmail: sess.User.Email,
		AtendidoID:    sess.User.ID,
	}
	updated, err := s.backend.AssignIncident(ctx, sess.Token, id, req)
	if err != nil {
		log.WithError(err).Error("Failed to assign incident in backend")
		return nil, err
	}

	s.afterWrite(ctx, log, notify.EventIncidentAssigned, updated, &sess.User)
	log.Info("Incident assigned successfully")
	return updated, nil
}

// ResolveIncident marca el incidente como resuelto y publica el evento.
func (s *dashboardService) ResolveIncident(ctx context.Context, sess *session.Session, id string, solucion string, tiempoResolucion *int) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dashboard",
		"method":      "ResolveIncident",
		"incident_id": id,
		"user_id":     sess.User.ID,
	})
	log.Info("Resolving incident")

	req := backend.ResolveRequest{
		Solucion:         solucion,
		TiempoResolucion: tiempoResolucion,
	}
	updated, err := s.backend.ResolveIncident(ctx, sess.Token, id, req)
	if err != nil {
		log.WithError(err).Error("Failed to resolve incident in backend")
		return nil, err
	}

	s.afterWrite(ctx, log, notify.EventIncidentResolved, updated, &sess.User)
	log.Info("Incident resolved successfully")
	return updated, nil
}

// ReportSummary agrega el resumen del panel del supervisor sobre el listado
// filtrado.
func (s *dashboardService) ReportSummary(ctx context.Context, sess *session.Session, filters models.FilterState) (*models.ReportData, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "ReportSummary"})
	log.Info("Building report summary")

	incidents, err := s.fetchFiltered(ctx, sess, filters)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents for report")
		return nil, err
	}
	return Aggregate(incidents), nil
}

// ListWorkers devuelve el directorio de trabajadores para la vista del
// supervisor. El backend puede incluir supervisores y administradores en el
// listado; aquí solo interesan los trabajadores asignables.
func (s *dashboardService) ListWorkers(ctx context.Context, sess *session.Session) ([]models.User, error) {
	log := s.logger.WithFields(logrus.Fields{"service": "dashboard", "method": "ListWorkers"})
	log.Info("Listing workers")

	users, err := s.backend.ListUsers(ctx, sess.Token)
	if err != nil {
		log.WithError(err).Error("Failed to list users")
		return nil, err
	}

	workers := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Rol == models.RoleTrabajador {
			workers = append(workers, u)
		}
	}
	return workers, nil
}

// afterWrite invalida la caché, adelanta la generación para que ninguna
// lectura en vuelo vuelva a cachear el estado anterior, y publica el evento.
func (s *dashboardService) afterWrite(ctx context.Context, log *logrus.Entry, tipo notify.EventType, inc *models.Incident, user *models.User) {
	s.guard.begin(inc.ID)
	if err := s.cache.InvalidateIncident(ctx, inc.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	event := notify.Event{
		ID:         uuid.New().String(),
		Tipo:       tipo,
		IncidentID: inc.ID,
		User:       user,
		Timestamp:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// la entrega es best-effort: el fallo se registra y no anula la escritura
		log.WithError(err).Warn("Failed to publish incident event")
	}
}

// fetchFiltered delega los filtros estructurados al backend y aplica la
// búsqueda libre localmente.
func (s *dashboardService) fetchFiltered(ctx context.Context, sess *session.Session, filters models.FilterState) ([]models.Incident, error) {
	incidents, err := s.backend.ListIncidents(ctx, sess.Token, filters)
	if err != nil {
		return nil, err
	}
	if filters.Busqueda != "" {
		incidents = query.Apply(incidents, models.FilterState{Busqueda: filters.Busqueda})
	}
	return incidents, nil
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func paged(incidents []models.Incident, page, pageSize int) *IncidentPage {
	window, totalPages := query.Paginate(incidents, page, pageSize)
	return &IncidentPage{
		Incidentes: window,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(incidents),
	}
}

// Aggregate calcula el resumen del panel a partir de una colección canónica.
func Aggregate(incidents []models.Incident) *models.ReportData {
	report := &models.ReportData{
		TotalIncidentes: len(incidents),
	}

	byType := make(map[models.IncidentType]int)
	byLocation := make(map[string]int)
	var resolutionTotal, resolutionCount int

	for _, inc := range incidents {
		if inc.Estado == models.StatusPendiente {
			report.Pendientes++
		}
		if inc.Urgencia == models.UrgencyCritica {
			report.CasosCriticos++
		}
		byType[inc.Tipo]++
		if inc.Ubicacion != "" {
			byLocation[inc.Ubicacion]++
		}
		if inc.TiempoResolucion != nil {
			resolutionTotal += *inc.TiempoResolucion
			resolutionCount++
		}
	}

	if resolutionCount > 0 {
		report.TiempoPromedioResolucion = resolutionTotal / resolutionCount
	}

	for tipo, count := range byType {
		report.DistribucionPorTipo = append(report.DistribucionPorTipo, models.TypeCount{Tipo: tipo, Cantidad: count})
	}
	sort.Slice(report.DistribucionPorTipo, func(a, b int) bool {
		if report.DistribucionPorTipo[a].Cantidad != report.DistribucionPorTipo[b].Cantidad {
			return report.DistribucionPorTipo[a].Cantidad > report.DistribucionPorTipo[b].Cantidad
		}
		return report.DistribucionPorTipo[a].Tipo < report.DistribucionPorTipo[b].Tipo
	})

	for ubicacion, count := range byLocation {
		report.DistribucionPorUbicacion = append(report.DistribucionPorUbicacion, models.LocationCount{Ubicacion: ubicacion, Cantidad: count})
	}
	sort.Slice(report.DistribucionPorUbicacion, func(a, b int) bool {
		if report.DistribucionPorUbicacion[a].Cantidad != report.DistribucionPorUbicacion[b].Cantidad {
			return report.DistribucionPorUbicacion[a].Cantidad > report.DistribucionPorUbicacion[b].Cantidad
		}
		return report.DistribucionPorUbicacion[a].Ubicacion < report.DistribucionPorUbicacion[b].Ubicacion
	})

	return report
}
