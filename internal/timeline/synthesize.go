// Package timeline deriva un historial plausible a partir de los propios
// campos de un incidente, para cuando el endpoint de historial del backend
// no está disponible o falla.
package timeline

import (
	"fmt"
	"sort"

	"github.com/alerta-utec/incident_dashboard/internal/models"
)

// Synthesize construye un historial determinista a partir del incidente.
// Misma entrada, misma secuencia ordenada de salida, siempre. El orden
// final es ascendente por fecha con empates resueltos por orden de
// inserción (ordenación estable: varios eventos sintetizados comparten
// fechaActualizacion).
func Synthesize(inc models.Incident) []models.TimelineEvent {
	events := []models.TimelineEvent{{
		ID:          fmt.Sprintf("tl-%s-creado", inc.ID),
		Tipo:        models.EventCreado,
		Usuario:     inc.ReportadoPor,
		Descripcion: fmt.Sprintf("Incidente creado por %s", inc.ReportadoPor),
		Fecha:       inc.FechaReporte,
	}}

	if inc.Asignado() {
		events = append(events, models.TimelineEvent{
			ID:          fmt.Sprintf("tl-%s-asignado", inc.ID),
			Tipo:        models.EventAsignado,
			Usuario:     "Sistema",
			Descripcion: fmt.Sprintf("Asignado a %s", inc.AtendidoPor),
			Fecha:       inc.FechaActualizacion,
			Metadata:    map[string]any{"atendidoPor": inc.AtendidoPor},
		})
	}

	if inc.Estado == models.StatusAprobado {
		events = append(events, models.TimelineEvent{
			ID:          fmt.Sprintf("tl-%s-aprobado", inc.ID),
			Tipo:        models.EventAprobado,
			Usuario:     "Sistema",
			Descripcion: "Incidente aprobado por supervisor",
			Fecha:       inc.FechaActualizacion,
		})
	}

	if inc.Estado == models.StatusRechazado {
		events = append(events, models.TimelineEvent{
			ID:          fmt.Sprintf("tl-%s-rechazado", inc.ID),
			Tipo:        models.EventRechazado,
			Usuario:     "Sistema",
			Descripcion: "Incidente rechazado",
			Fecha:       inc.FechaActualizacion,
		})
	}

	if inc.Estado == models.StatusResuelto && inc.FechaResolucion != nil {
		usuario := inc.AtendidoPor
		if usuario == "" {
			usuario = "Sistema"
		}
		events = append(events, models.TimelineEvent{
			ID:          fmt.Sprintf("tl-%s-resuelto", inc.ID),
			Tipo:        models.EventResuelto,
			Usuario:     usuario,
			Descripcion: "Incidente marcado como resuelto",
			Fecha:       *inc.FechaResolucion,
		})
	}

	for i, comment := range inc.Comentarios {
		if comment.Tipo != models.CommentUsuario {
			continue
		}
		events = append(events, models.TimelineEvent{
			ID:          fmt.Sprintf("tl-%s-comentario-%d", inc.ID, i),
			Tipo:        models.EventComentario,
			Usuario:     comment.Autor,
			Descripcion: comment.Contenido,
			Fecha:       comment.Fecha,
		})
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Fecha.Before(events[b].Fecha)
	})
	return events
}
