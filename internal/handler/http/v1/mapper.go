package v1

import (
	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/alerta-utec/incident_dashboard/internal/service"
)

// ModelToUserResponse convierte la identidad canónica en DTO de respuesta.
func ModelToUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Nombre: user.Nombre,
		Email:  user.Email,
		Rol:    string(user.Rol),
		Area:   string(user.Area),
		Avatar: user.Avatar,
	}
}

// ModelsToWorkerListResponse convierte el directorio de trabajadores en DTO.
func ModelsToWorkerListResponse(workers []models.User) WorkerListResponse {
	data := make([]UserResponse, len(workers))
	for i, w := range workers {
		data[i] = ModelToUserResponse(w)
	}
	return WorkerListResponse{Trabajadores: data, Total: len(data)}
}

// ModelToIncidentResponse convierte el incidente canónico en DTO de respuesta.
func ModelToIncidentResponse(inc models.Incident) IncidentResponse {
	comments := make([]CommentResponse, len(inc.Comentarios))
	for i, c := range inc.Comentarios {
		comments[i] = CommentResponse{
			ID:        c.ID,
			Autor:     c.Autor,
			Contenido: c.Contenido,
			Fecha:     c.Fecha,
			Tipo:      string(c.Tipo),
		}
	}
	return IncidentResponse{
		ID:                 inc.ID,
		Titulo:             inc.Titulo,
		Descripcion:        inc.Descripcion,
		Tipo:               string(inc.Tipo),
		Urgencia:           string(inc.Urgencia),
		Estado:             string(inc.Estado),
		Ubicacion:          inc.Ubicacion,
		ReportadoPor:       inc.ReportadoPor,
		AtendidoPor:        inc.AtendidoPor,
		FechaReporte:       inc.FechaReporte,
		FechaActualizacion: inc.FechaActualizacion,
		FechaResolucion:    inc.FechaResolucion,
		Comentarios:        comments,
		Evidencias:         inc.Evidencias,
		TiempoResolucion:   inc.TiempoResolucion,
	}
}

// PageToListResponse convierte una página del servicio en DTO de respuesta.
func PageToListResponse(page *service.IncidentPage) IncidentListResponse {
	data := make([]IncidentResponse, len(page.Incidentes))
	for i, inc := range page.Incidentes {
		data[i] = ModelToIncidentResponse(inc)
	}
	return IncidentListResponse{
		Data:       data,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	}
}

// ModelsToTimelineResponses convierte el historial canónico en DTOs.
func ModelsToTimelineResponses(events []models.TimelineEvent) []TimelineEventResponse {
	responses := make([]TimelineEventResponse, len(events))
	for i, ev := range events {
		responses[i] = TimelineEventResponse{
			ID:          ev.ID,
			Tipo:        string(ev.Tipo),
			Usuario:     ev.Usuario,
			Descripcion: ev.Descripcion,
			Fecha:       ev.Fecha,
			Metadata:    ev.Metadata,
		}
	}
	return responses
}
