package models

import "time"

// TimelineEventType clasifica los eventos del historial de un incidente.
type TimelineEventType string

const (
	EventCreado         TimelineEventType = "creado"
	EventAsignado       TimelineEventType = "asignado"
	EventComentario     TimelineEventType = "comentario"
	EventEstadoCambiado TimelineEventType = "estado_cambiado"
	EventResuelto       TimelineEventType = "resuelto"
	EventAprobado       TimelineEventType = "aprobado"
	EventRechazado      TimelineEventType = "rechazado"
)

// TimelineEvent es un evento del historial de un incidente.
// Toda secuencia entregada al consumidor está ordenada ascendente por Fecha.
type TimelineEvent struct {
	ID          string            `json:"id"`
	Tipo        TimelineEventType `json:"tipo"`
	Usuario     string            `json:"usuario"`
	Descripcion string            `json:"descripcion"`
	Fecha       time.Time         `json:"fecha"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}
