package models

import (
	"time"
)

// IncidentStatus es el estado del ciclo de vida de un incidente.
type IncidentStatus string

const (
	StatusPendiente IncidentStatus = "pendiente"
	StatusEnProceso IncidentStatus = "en_proceso"
	StatusResuelto  IncidentStatus = "resuelto"
	StatusRechazado IncidentStatus = "rechazado"
	StatusAprobado  IncidentStatus = "aprobado"

	// StatusEnAtencion es un valor legado del backend; la normalización
	// lo reescribe a en_proceso y nunca aparece en el modelo canónico.
	StatusEnAtencion IncidentStatus = "en_atencion"
)

type IncidentUrgency string

const (
	UrgencyBaja    IncidentUrgency = "baja"
	UrgencyMedia   IncidentUrgency = "media"
	UrgencyAlta    IncidentUrgency = "alta"
	UrgencyCritica IncidentUrgency = "critica"
)

type IncidentType string

const (
	TypeInfraestructura IncidentType = "infraestructura"
	TypeSeguridad       IncidentType = "seguridad"
	TypeSoftware        IncidentType = "software"
	TypeHardware        IncidentType = "hardware"
	TypeRed             IncidentType = "red"
	TypeOtro            IncidentType = "otro"
)

// Incident es el modelo canónico que consume toda la capa de presentación,
// independiente de la variante de nombres de campo que use el backend.
// AtendidoPor vacío significa "sin asignar": el centinela "NO ASIGNADO"
// se absorbe durante la normalización y nunca llega hasta aquí.
type Incident struct {
	ID                 string          `json:"id"`
	Titulo             string          `json:"titulo"`
	Descripcion        string          `json:"descripcion"`
	Tipo               IncidentType    `json:"tipo"`
	Urgencia           IncidentUrgency `json:"urgencia"`
	Estado             IncidentStatus  `json:"estado"`
	Ubicacion          string          `json:"ubicacion"`
	ReportadoPor       string          `json:"reportadoPor"`
	AtendidoPor        string          `json:"atendidoPor,omitempty"`
	FechaReporte       time.Time       `json:"fechaReporte"`
	FechaActualizacion time.Time       `json:"fechaActualizacion"`
	FechaResolucion    *time.Time      `json:"fechaResolucion,omitempty"`
	Comentarios        []Comment       `json:"comentarios"`
	Evidencias         []string        `json:"evidencias,omitempty"`
	TiempoResolucion   *int            `json:"tiempoResolucion,omitempty"` // minutos
}

// Asignado indica si el incidente tiene un trabajador asignado.
func (i Incident) Asignado() bool {
	return i.AtendidoPor != ""
}

type CommentKind string

const (
	CommentSistema CommentKind = "sistema"
	CommentUsuario CommentKind = "usuario"
)

// Comment es un comentario dentro de la conversación de un incidente.
type Comment struct {
	ID        string      `json:"id"`
	Autor     string      `json:"autor"`
	Contenido string      `json:"contenido"`
	Fecha     time.Time   `json:"fecha"`
	Tipo      CommentKind `json:"tipo,omitempty"`
}
