package normalize

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger devuelve un logger silencioso para los tests.
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

// fixedNow fija timeNow durante el test y lo restaura al terminar.
func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })
}

func TestIncident_CanonicalRecord(t *testing.T) {
	raw := map[string]any{
		"id":           "inc-1",
		"titulo":       "Fuga de agua",
		"descripcion":  "Fuga en el tercer piso",
		"tipo":         "infraestructura",
		"urgencia":     "alta",
		"estado":       "pendiente",
		"ubicacion":    "Pabellón A",
		"reportadoPor": "Ana Torres",
		"atendidoPor":  "Luis Paredes",
		"fechaReporte": "2026-03-10T09:15:00Z",
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, "inc-1", inc.ID)
	assert.Equal(t, "Fuga de agua", inc.Titulo)
	assert.Equal(t, models.TypeInfraestructura, inc.Tipo)
	assert.Equal(t, models.UrgencyAlta, inc.Urgencia)
	assert.Equal(t, models.StatusPendiente, inc.Estado)
	assert.Equal(t, "Luis Paredes", inc.AtendidoPor)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC), inc.FechaReporte)
}

func TestIncident_LegacyEnglishSchema(t *testing.T) {
	// La variante histórica del backend: _id, claves en inglés, estado
	// legado en_atencion y el centinela de no asignado.
	raw := map[string]any{
		"_id":        "X1",
		"status":     "en_atencion",
		"asignadoA":  "NO ASIGNADO",
		"title":      "Leak",
		"createdAt":  "2026-01-05T08:00:00Z",
		"reportedBy": "jperez",
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, "X1", inc.ID)
	assert.Equal(t, "Leak", inc.Titulo)
	assert.Equal(t, models.StatusEnProceso, inc.Estado)
	assert.Empty(t, inc.AtendidoPor)
	assert.False(t, inc.Asignado())
	assert.Equal(t, "jperez", inc.ReportadoPor)
}

func TestIncident_KeyChainOrder(t *testing.T) {
	// Cuando coinciden varias claves candidatas gana la primera de la
	// cadena, no la última.
	raw := map[string]any{
		"titulo": "canónico",
		"title":  "legado",
		"estado": "resuelto",
		"status": "pendiente",
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, "canónico", inc.Titulo)
	assert.Equal(t, models.StatusResuelto, inc.Estado)
}

func TestIncident_NullKeySkipsToNextCandidate(t *testing.T) {
	// Una clave presente pero nula no corta la cadena.
	raw := map[string]any{
		"titulo": nil,
		"title":  "desde la clave en inglés",
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, "desde la clave en inglés", inc.Titulo)
}

func TestIncident_Defaults(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	inc, ok := Incident(map[string]any{"titulo": "Sin metadatos"})

	require.True(t, ok)
	assert.Equal(t, models.TypeOtro, inc.Tipo)
	assert.Equal(t, models.UrgencyMedia, inc.Urgencia)
	assert.Equal(t, models.StatusPendiente, inc.Estado)
	assert.Equal(t, now, inc.FechaReporte)
	assert.Equal(t, now, inc.FechaActualizacion)
	assert.Nil(t, inc.FechaResolucion)
	assert.NotNil(t, inc.Comentarios)
	assert.Empty(t, inc.Comentarios)
}

func TestIncident_UnknownEnumValuesDegrade(t *testing.T) {
	raw := map[string]any{
		"titulo":   "Valores fuera de catálogo",
		"tipo":     "meteorito",
		"urgencia": "apocalíptica",
		"estado":   "en_otra_dimension",
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, models.TypeOtro, inc.Tipo)
	assert.Equal(t, models.UrgencyMedia, inc.Urgencia)
	assert.Equal(t, models.StatusPendiente, inc.Estado)
}

func TestIncident_BlankAssigneeIsAbsent(t *testing.T) {
	for _, value := range []string{"NO ASIGNADO", "   "} {
		inc, ok := Incident(map[string]any{"titulo": "x", "atendidoPor": value})
		require.True(t, ok)
		assert.Empty(t, inc.AtendidoPor, "valor %q debería absorberse", value)
	}
}

func TestIncident_SyntheticIDIsStable(t *testing.T) {
	raw := map[string]any{
		"titulo":       "Sin id propio",
		"descripcion":  "El backend no mandó id",
		"fechaReporte": "2026-02-01T10:00:00Z",
	}

	first, ok := Incident(raw)
	require.True(t, ok)
	second, ok := Incident(raw)
	require.True(t, ok)

	// mismo contenido, mismo id, estable entre recargas
	assert.Equal(t, first.ID, second.ID)
	assert.Contains(t, first.ID, "inc-")

	other, ok := Incident(map[string]any{"titulo": "Otro contenido"})
	require.True(t, ok)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestIncident_EpochTimestamps(t *testing.T) {
	raw := map[string]any{
		"titulo":       "Fechas numéricas",
		"fechaReporte": float64(1767225600000), // milisegundos
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1767225600000).UTC(), inc.FechaReporte)
}

func TestIncident_CommentsAndResolution(t *testing.T) {
	resolved := "2026-04-02T18:30:00Z"
	raw := map[string]any{
		"id":               "inc-9",
		"titulo":           "Resuelto con conversación",
		"estado":           "resuelto",
		"fechaResolucion":  resolved,
		"tiempoResolucion": float64(45),
		"comentarios": []any{
			map[string]any{"id": "c1", "autor": "Luis", "contenido": "En camino", "tipo": "usuario", "fecha": "2026-04-02T17:00:00Z"},
			"esto no es un comentario",
			map[string]any{"autor": "Sistema", "contenido": "Estado actualizado", "tipo": "sistema"},
		},
	}

	inc, ok := Incident(raw)

	require.True(t, ok)
	require.NotNil(t, inc.FechaResolucion)
	assert.Equal(t, time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC), *inc.FechaResolucion)
	require.NotNil(t, inc.TiempoResolucion)
	assert.Equal(t, 45, *inc.TiempoResolucion)
	// el elemento no-objeto se descarta, los demás sobreviven
	require.Len(t, inc.Comentarios, 2)
	assert.Equal(t, "c1", inc.Comentarios[0].ID)
	assert.Equal(t, models.CommentUsuario, inc.Comentarios[0].Tipo)
	// id sintético por posición cuando el comentario no trae uno
	assert.Equal(t, "c-2", inc.Comentarios[1].ID)
}

func TestIncident_NormalizationIsIdempotent(t *testing.T) {
	// Un incidente ya canónico que vuelve a pasar por la normalización
	// (por ejemplo, servido desde caché y releído como JSON) queda igual.
	fixedNow(t, time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	raw := map[string]any{
		"_id":              "X1",
		"title":            "Leak",
		"description":      "Tubería rota en el sótano",
		"status":           "en_atencion",
		"asignadoA":        "NO ASIGNADO",
		"urgency":          "alta",
		"location":         "Pabellón B",
		"reportedBy":       "jperez",
		"createdAt":        "2026-01-05T08:00:00Z",
		"resolvedAt":       "2026-01-06T09:30:00Z",
		"tiempoResolucion": float64(90),
		"evidencias":       []any{"foto1.jpg"},
		"comentarios": []any{
			map[string]any{"id": "c1", "autor": "Luis", "contenido": "Revisando", "tipo": "usuario", "fecha": "2026-01-05T09:00:00Z"},
		},
	}

	first, ok := Incident(raw)
	require.True(t, ok)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal(encoded, &roundTrip))

	second, ok := Incident(roundTrip)
	require.True(t, ok)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Titulo, second.Titulo)
	assert.Equal(t, first.Descripcion, second.Descripcion)
	assert.Equal(t, first.Tipo, second.Tipo)
	assert.Equal(t, first.Urgencia, second.Urgencia)
	assert.Equal(t, first.Estado, second.Estado)
	assert.Equal(t, first.Ubicacion, second.Ubicacion)
	assert.Equal(t, first.ReportadoPor, second.ReportadoPor)
	assert.Equal(t, first.AtendidoPor, second.AtendidoPor)
	assert.True(t, first.FechaReporte.Equal(second.FechaReporte))
	assert.True(t, first.FechaActualizacion.Equal(second.FechaActualizacion))
	require.NotNil(t, second.FechaResolucion)
	assert.True(t, first.FechaResolucion.Equal(*second.FechaResolucion))
	require.NotNil(t, second.TiempoResolucion)
	assert.Equal(t, *first.TiempoResolucion, *second.TiempoResolucion)
	assert.Equal(t, first.Evidencias, second.Evidencias)
	require.Len(t, second.Comentarios, 1)
	assert.Equal(t, first.Comentarios[0].ID, second.Comentarios[0].ID)
	assert.Equal(t, first.Comentarios[0].Tipo, second.Comentarios[0].Tipo)
	assert.True(t, first.Comentarios[0].Fecha.Equal(second.Comentarios[0].Fecha))
}

func TestIncident_NilRecordFails(t *testing.T) {
	_, ok := Incident(nil)
	assert.False(t, ok)
}

func TestIncidents_DropsMalformedRecords(t *testing.T) {
	raws := []map[string]any{
		{"id": "a", "titulo": "uno"},
		nil, // registro malformado
		{"id": "b", "titulo": "dos"},
	}

	incidents := Incidents(testLogger(), raws)

	// N registros con uno malformado degradan a N-1
	require.Len(t, incidents, 2)
	assert.Equal(t, "a", incidents[0].ID)
	assert.Equal(t, "b", incidents[1].ID)
}
