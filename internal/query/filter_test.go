package query

import (
	"testing"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIncidents() []models.Incident {
	return []models.Incident{
		{
			ID:           "inc-1",
			Titulo:       "Fuga de agua",
			Descripcion:  "Fuga en el tercer piso",
			Tipo:         models.TypeInfraestructura,
			Urgencia:     models.UrgencyAlta,
			Estado:       models.StatusPendiente,
			FechaReporte: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:           "inc-2",
			Titulo:       "Servidor caído",
			Descripcion:  "El servidor de notas no responde",
			Tipo:         models.TypeSoftware,
			Urgencia:     models.UrgencyCritica,
			Estado:       models.StatusEnProceso,
			FechaReporte: time.Date(2026, 3, 12, 23, 50, 0, 0, time.UTC),
		},
		{
			ID:           "inc-3",
			Titulo:       "Proyector dañado",
			Descripcion:  "Aula 305",
			Tipo:         models.TypeHardware,
			Urgencia:     models.UrgencyBaja,
			Estado:       models.StatusResuelto,
			FechaReporte: time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestApply_EmptyFilterKeepsEverything(t *testing.T) {
	incidents := sampleIncidents()
	assert.Len(t, Apply(incidents, models.FilterState{}), len(incidents))
}

func TestApply_AndSemanticsAcrossDimensions(t *testing.T) {
	incidents := sampleIncidents()

	filtered := Apply(incidents, models.FilterState{
		Estado:   "en_proceso",
		Urgencia: "critica",
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-2", filtered[0].ID)

	// misma urgencia pero estado que no coincide: cero resultados
	filtered = Apply(incidents, models.FilterState{
		Estado:   "pendiente",
		Urgencia: "critica",
	})
	assert.Empty(t, filtered)
}

func TestApply_DateRangeIsInclusiveOnBothEnds(t *testing.T) {
	incidents := sampleIncidents()

	// inc-2 se reportó el 2026-03-12 a las 23:50; el extremo superior cubre
	// el día completo
	filtered := Apply(incidents, models.FilterState{
		FechaDesde: "2026-03-12",
		FechaHasta: "2026-03-12",
	})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-2", filtered[0].ID)

	// el día siguiente ya queda fuera
	filtered = Apply(incidents, models.FilterState{FechaHasta: "2026-03-11"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-1", filtered[0].ID)
}

func TestApply_MalformedDateImposesNothing(t *testing.T) {
	incidents := sampleIncidents()
	filtered := Apply(incidents, models.FilterState{FechaDesde: "12/03/2026"})
	assert.Len(t, filtered, len(incidents))
}

func TestApply_SearchMatchesTitleDescriptionAndID(t *testing.T) {
	incidents := sampleIncidents()

	filtered := Apply(incidents, models.FilterState{Busqueda: "SERVIDOR"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-2", filtered[0].ID)

	filtered = Apply(incidents, models.FilterState{Busqueda: "aula 305"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-3", filtered[0].ID)

	filtered = Apply(incidents, models.FilterState{Busqueda: "inc-1"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "inc-1", filtered[0].ID)

	assert.Empty(t, Apply(incidents, models.FilterState{Busqueda: "ascensor"}))
}

func TestParams_OmitsEmptyFieldsAndSearch(t *testing.T) {
	params := Params(models.FilterState{
		Estado:     "pendiente",
		Tipo:       "software",
		FechaDesde: "2026-03-01",
		Busqueda:   "servidor",
	})

	assert.Equal(t, "pendiente", params.Get("estado"))
	assert.Equal(t, "software", params.Get("tipo"))
	assert.Equal(t, "2026-03-01", params.Get("fechaDesde"))
	// la búsqueda libre se filtra siempre en local, nunca viaja al backend
	assert.False(t, params.Has("busqueda"))
	assert.False(t, params.Has("urgencia"))
}

func TestSortByUrgency_DescendingAndStable(t *testing.T) {
	incidents := []models.Incident{
		{ID: "baja-1", Urgencia: models.UrgencyBaja},
		{ID: "media-1", Urgencia: models.UrgencyMedia},
		{ID: "critica-1", Urgencia: models.UrgencyCritica},
		{ID: "media-2", Urgencia: models.UrgencyMedia},
		{ID: "alta-1", Urgencia: models.UrgencyAlta},
	}

	SortByUrgency(incidents)

	got := make([]string, len(incidents))
	for i, inc := range incidents {
		got[i] = inc.ID
	}
	// media-1 antes que media-2: el empate conserva el orden de llegada
	assert.Equal(t, []string{"critica-1", "alta-1", "media-1", "media-2", "baja-1"}, got)
}
