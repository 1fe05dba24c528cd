package timeline

import (
	"testing"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_MinimalIncident(t *testing.T) {
	inc := models.Incident{
		ID:           "inc-1",
		ReportadoPor: "Ana Torres",
		Estado:       models.StatusPendiente,
		FechaReporte: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	events := Synthesize(inc)

	// un incidente pendiente sin asignar solo tiene el evento de creación
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCreado, events[0].Tipo)
	assert.Equal(t, "Ana Torres", events[0].Usuario)
	assert.Equal(t, inc.FechaReporte, events[0].Fecha)
}

func TestSynthesize_ResolvedIncidentFullTimeline(t *testing.T) {
	reported := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	resolved := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	inc := models.Incident{
		ID:                 "inc-1",
		ReportadoPor:       "Ana Torres",
		AtendidoPor:        "Luis Paredes",
		Estado:             models.StatusResuelto,
		FechaReporte:       reported,
		FechaActualizacion: updated,
		FechaResolucion:    &resolved,
		Comentarios: []models.Comment{
			{Autor: "Luis Paredes", Contenido: "Revisando la fuga", Tipo: models.CommentUsuario, Fecha: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
			{Autor: "Sistema", Contenido: "Estado actualizado", Tipo: models.CommentSistema, Fecha: updated},
		},
	}

	events := Synthesize(inc)

	// creado, asignado, comentario de usuario y resuelto, en orden
	// cronológico; el comentario de sistema no genera evento
	require.Len(t, events, 4)
	assert.Equal(t, models.EventCreado, events[0].Tipo)
	assert.Equal(t, models.EventAsignado, events[1].Tipo)
	assert.Equal(t, "Luis Paredes", events[1].Metadata["atendidoPor"])
	assert.Equal(t, models.EventComentario, events[2].Tipo)
	assert.Equal(t, "Revisando la fuga", events[2].Descripcion)
	assert.Equal(t, models.EventResuelto, events[3].Tipo)
	assert.Equal(t, "Luis Paredes", events[3].Usuario)
	assert.Equal(t, resolved, events[3].Fecha)
}

func TestSynthesize_ResolvedWithoutDateHasNoResolvedEvent(t *testing.T) {
	inc := models.Incident{
		ID:           "inc-1",
		Estado:       models.StatusResuelto,
		FechaReporte: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	events := Synthesize(inc)

	require.Len(t, events, 1)
	assert.Equal(t, models.EventCreado, events[0].Tipo)
}

func TestSynthesize_ApprovedAndRejected(t *testing.T) {
	base := models.Incident{
		ID:                 "inc-1",
		FechaReporte:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		FechaActualizacion: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	base.Estado = models.StatusAprobado
	events := Synthesize(base)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventAprobado, events[1].Tipo)

	base.Estado = models.StatusRechazado
	events = Synthesize(base)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventRechazado, events[1].Tipo)
}

func TestSynthesize_Deterministic(t *testing.T) {
	updated := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	inc := models.Incident{
		ID:                 "inc-1",
		ReportadoPor:       "Ana Torres",
		AtendidoPor:        "Luis Paredes",
		Estado:             models.StatusAprobado,
		FechaReporte:       updated, // misma fecha en todos los eventos
		FechaActualizacion: updated,
	}

	first := Synthesize(inc)
	second := Synthesize(inc)

	// misma entrada, misma secuencia; los empates de fecha conservan el
	// orden de las reglas (creado, asignado, aprobado)
	require.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, models.EventCreado, first[0].Tipo)
	assert.Equal(t, models.EventAsignado, first[1].Tipo)
	assert.Equal(t, models.EventAprobado, first[2].Tipo)
}
