package query

import (
	"sort"

	"github.com/alerta-utec/incident_dashboard/internal/models"
)

// orden total fijo de urgencias para la cola de pendientes
var urgencyRank = map[models.IncidentUrgency]int{
	models.UrgencyCritica: 4,
	models.UrgencyAlta:    3,
	models.UrgencyMedia:   2,
	models.UrgencyBaja:    1,
}

// SortByUrgency ordena in situ por urgencia descendente. La ordenación es
// estable: incidentes de igual urgencia conservan su orden relativo.
func SortByUrgency(incidents []models.Incident) {
	sort.SliceStable(incidents, func(a, b int) bool {
		return urgencyRank[incidents[a].Urgencia] > urgencyRank[incidents[b].Urgencia]
	})
}
