package normalize

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// sentinela que el backend usa en lugar de dejar el campo vacío
const unassignedSentinel = "NO ASIGNADO"

var validTypes = map[models.IncidentType]bool{
	models.TypeInfraestructura: true,
	models.TypeSeguridad:       true,
	models.TypeSoftware:        true,
	models.TypeHardware:        true,
	models.TypeRed:             true,
	models.TypeOtro:            true,
}

var validUrgencies = map[models.IncidentUrgency]bool{
	models.UrgencyBaja:    true,
	models.UrgencyMedia:   true,
	models.UrgencyAlta:    true,
	models.UrgencyCritica: true,
}

var validStatuses = map[models.IncidentStatus]bool{
	models.StatusPendiente: true,
	models.StatusEnProceso: true,
	models.StatusResuelto:  true,
	models.StatusRechazado: true,
	models.StatusAprobado:  true,
}

// Incident convierte un registro crudo del backend en el modelo canónico.
// Nunca propaga pánicos: si el registro tiene una forma inesperada devuelve
// ok=false y el llamador lo descarta, de modo que un registro malformado no
// aborta el procesamiento del resto de la colección.
func Incident(raw map[string]any) (inc models.Incident, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if raw == nil {
		return models.Incident{}, false
	}

	now := timeNow()

	inc.Titulo = strOr(raw, incidentKeys.Titulo, "")
	inc.Descripcion = strOr(raw, incidentKeys.Descripcion, "")

	if id, found := str(raw, incidentKeys.ID); found {
		inc.ID = id
	} else {
		inc.ID = syntheticID(raw)
	}

	inc.Tipo = models.IncidentType(strOr(raw, incidentKeys.Tipo, string(models.TypeOtro)))
	if !validTypes[inc.Tipo] {
		inc.Tipo = models.TypeOtro
	}

	inc.Urgencia = models.IncidentUrgency(strOr(raw, incidentKeys.Urgencia, string(models.UrgencyMedia)))
	if !validUrgencies[inc.Urgencia] {
		inc.Urgencia = models.UrgencyMedia
	}

	// La reescritura del valor legado se aplica después de resolver la
	// cadena de claves, nunca antes.
	inc.Estado = models.IncidentStatus(strOr(raw, incidentKeys.Estado, string(models.StatusPendiente)))
	if inc.Estado == models.StatusEnAtencion {
		inc.Estado = models.StatusEnProceso
	}
	if !validStatuses[inc.Estado] {
		inc.Estado = models.StatusPendiente
	}

	inc.Ubicacion = strOr(raw, incidentKeys.Ubicacion, "")
	inc.ReportadoPor = strOr(raw, incidentKeys.ReportadoPor, "")
	inc.AtendidoPor = normalizeAssignee(raw)

	if t, found := timeAt(raw, incidentKeys.FechaReporte); found {
		inc.FechaReporte = t
	} else {
		inc.FechaReporte = now
	}
	if t, found := timeAt(raw, incidentKeys.FechaActualizacion); found {
		inc.FechaActualizacion = t
	} else {
		inc.FechaActualizacion = now
	}
	if t, found := timeAt(raw, incidentKeys.FechaResolucion); found {
		inc.FechaResolucion = &t
	}

	inc.Comentarios = normalizeComments(raw)
	inc.Evidencias = stringSlice(raw, incidentKeys.Evidencias)
	if m, found := intAt(raw, incidentKeys.TiempoResolucion); found {
		inc.TiempoResolucion = &m
	}

	return inc, true
}

// Incidents normaliza una colección completa descartando los registros que
// fallan; una colección parcialmente malformada degrada a una más corta.
func Incidents(log logrus.FieldLogger, raws []map[string]any) []models.Incident {
	incidents := make([]models.Incident, 0, len(raws))
	for i, raw := range raws {
		inc, ok := Incident(raw)
		if !ok {
			log.WithField("index", i).Warn("Dropping malformed incident record")
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents
}

// normalizeAssignee absorbe el centinela "NO ASIGNADO" y los valores en
// blanco: el campo queda vacío, nunca con un texto de relleno visible.
func normalizeAssignee(raw map[string]any) string {
	assigned, found := str(raw, incidentKeys.AtendidoPor)
	if !found {
		return ""
	}
	if assigned == unassignedSentinel || strings.TrimSpace(assigned) == "" {
		return ""
	}
	return assigned
}

func normalizeComments(raw map[string]any) []models.Comment {
	v, found := field(raw, incidentKeys.Comentarios)
	if !found {
		return []models.Comment{}
	}
	items, ok := v.([]any)
	if !ok {
		return []models.Comment{}
	}
	comments := make([]models.Comment, 0, len(items))
	for i, item := range items {
		cr, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := models.Comment{
			ID:        strOr(cr, commentKeys.ID, fmt.Sprintf("c-%d", i)),
			Autor:     strOr(cr, commentKeys.Autor, ""),
			Contenido: strOr(cr, commentKeys.Contenido, ""),
			Tipo:      models.CommentKind(strOr(cr, commentKeys.Tipo, "")),
		}
		if t, found := timeAt(cr, commentKeys.Fecha); found {
			c.Fecha = t
		} else {
			c.Fecha = timeNow()
		}
		comments = append(comments, c)
	}
	return comments
}

func stringSlice(raw map[string]any, keys []string) []string {
	v, found := field(raw, keys)
	if !found {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// syntheticID genera un id determinista a partir del contenido cuando el
// backend no envía ninguno. Un hash de contenido es estable entre recargas,
// a diferencia de un id derivado de índice y timestamp.
func syntheticID(raw map[string]any) string {
	h := fnv.New64a()
	for _, keys := range [][]string{incidentKeys.Titulo, incidentKeys.Descripcion, incidentKeys.FechaReporte} {
		if s, ok := str(raw, keys); ok {
			h.Write([]byte(s))
		}
		h.Write([]byte{0})
	}
	return fmt.Sprintf("inc-%016x", h.Sum64())
}
