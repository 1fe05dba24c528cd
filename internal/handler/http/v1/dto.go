package v1

import (
	"time"
)

// LoginRequest DTO para iniciar sesión
// @Description DTO para iniciar sesión
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest DTO para registrar un usuario
// @Description DTO para registrar un usuario
type RegisterRequest struct {
	Nombre   string `json:"nombre" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Codigo   string `json:"codigo" validate:"required"`
}

// UserResponse DTO con la identidad del usuario autenticado
// @Description DTO con la identidad del usuario autenticado
type UserResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Area   string `json:"area,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthResponse DTO de respuesta de login/registro
// @Description DTO de respuesta de login/registro
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// WorkerListResponse DTO con el directorio de trabajadores
// @Description DTO con el directorio de trabajadores
type WorkerListResponse struct {
	Trabajadores []UserResponse `json:"trabajadores"`
	Total        int            `json:"total"`
}

// ResolveIncidentRequest DTO para resolver un incidente
// @Description DTO para resolver un incidente
type ResolveIncidentRequest struct {
	Solucion         string `json:"solucion,omitempty" validate:"omitempty,max=2000"`
	TiempoResolucion *int   `json:"tiempoResolucion,omitempty" validate:"omitempty,gte=0"`
}

// CommentResponse DTO de un comentario del incidente
// @Description DTO de un comentario del incidente
type CommentResponse struct {
	ID        string    `json:"id"`
	Autor     string    `json:"autor"`
	Contenido string    `json:"contenido"`
	Fecha     time.Time `json:"fecha"`
	Tipo      string    `json:"tipo,omitempty"`
}

// IncidentResponse DTO con el incidente canónico
// @Description DTO con el incidente canónico
type IncidentResponse struct {
	ID                 string            `json:"id"`
	Titulo             string            `json:"titulo"`
	Descripcion        string            `json:"descripcion"`
	Tipo               string            `json:"tipo"`
	Urgencia           string            `json:"urgencia"`
	Estado             string            `json:"estado"`
	Ubicacion          string            `json:"ubicacion"`
	ReportadoPor       string            `json:"reportadoPor"`
	AtendidoPor        string            `json:"atendidoPor,omitempty"`
	FechaReporte       time.Time         `json:"fechaReporte"`
	FechaActualizacion time.Time         `json:"fechaActualizacion"`
	FechaResolucion    *time.Time        `json:"fechaResolucion,omitempty"`
	Comentarios        []CommentResponse `json:"comentarios"`
	Evidencias         []string          `json:"evidencias,omitempty"`
	TiempoResolucion   *int              `json:"tiempoResolucion,omitempty"`
}

// IncidentListResponse DTO con una página del listado filtrado
// @Description DTO con una página del listado filtrado
type IncidentListResponse struct {
	Data       []IncidentResponse `json:"data"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Total      int                `json:"total"`
}

// TimelineEventResponse DTO de un evento del historial
// @Description DTO de un evento del historial
type TimelineEventResponse struct {
	ID          string         `json:"id"`
	Tipo        string         `json:"tipo"`
	Usuario     string         `json:"usuario"`
	Descripcion string         `json:"descripcion"`
	Fecha       time.Time      `json:"fecha"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
