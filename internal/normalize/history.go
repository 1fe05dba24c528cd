package normalize

import (
	"fmt"
	"sort"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

var validEventTypes = map[models.TimelineEventType]bool{
	models.EventCreado:         true,
	models.EventAsignado:       true,
	models.EventComentario:     true,
	models.EventEstadoCambiado: true,
	models.EventResuelto:       true,
	models.EventAprobado:       true,
	models.EventRechazado:      true,
}

// HistoryEvent convierte un registro crudo del historial en un evento
// canónico. Mismo aislamiento de fallos por registro que Incident: un tipo
// de evento desconocido degrada a comentario, nunca se rechaza.
func HistoryEvent(raw map[string]any, incidentID string, index int) (ev models.TimelineEvent, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if raw == nil {
		return models.TimelineEvent{}, false
	}

	ev.ID = strOr(raw, historyKeys.ID, fmt.Sprintf("hist-%s-%d", incidentID, index))
	ev.Tipo = models.TimelineEventType(strOr(raw, historyKeys.Tipo, string(models.EventComentario)))
	if !validEventTypes[ev.Tipo] {
		ev.Tipo = models.EventComentario
	}
	ev.Usuario = strOr(raw, historyKeys.Usuario, "Sistema")
	ev.Descripcion = strOr(raw, historyKeys.Descripcion, "")
	if t, found := timeAt(raw, historyKeys.Fecha); found {
		ev.Fecha = t
	} else {
		ev.Fecha = timeNow()
	}
	if m, found := field(raw, historyKeys.Metadata); found {
		if metadata, isMap := m.(map[string]any); isMap {
			ev.Metadata = metadata
		}
	}
	if ev.Metadata == nil {
		ev.Metadata = map[string]any{}
	}
	return ev, true
}

// History normaliza el historial completo de un incidente. La secuencia
// devuelta siempre está ordenada ascendente por fecha: ese orden es
// responsabilidad del normalizador, no de quien lo renderiza.
func History(log logrus.FieldLogger, raws []map[string]any, incidentID string) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(raws))
	for i, raw := range raws {
		ev, ok := HistoryEvent(raw, incidentID, i)
		if !ok {
			log.WithFields(logrus.Fields{"incident_id": incidentID, "index": i}).
				Warn("Dropping malformed history event")
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Fecha.Before(events[b].Fecha)
	})
	return events
}
