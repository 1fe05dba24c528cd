// Package query aplica filtros, ordenación y paginación sobre colecciones
// canónicas de incidentes, del lado del cliente. Los campos estructurados
// también pueden traducirse a parámetros de consulta para que los filtre el
// backend.
package query

import (
	"net/url"
	"strings"
	"time"

	"github.com/alerta-utec/incident_dashboard/internal/models"
)

const dateLayout = "2006-01-02"

// Apply filtra la colección con semántica AND entre dimensiones: cada campo
// definido restringe, uno vacío no impone nada. La búsqueda libre compara
// sin distinguir mayúsculas contra título, descripción e id.
func Apply(incidents []models.Incident, filters models.FilterState) []models.Incident {
	filtered := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if matches(inc, filters) {
			filtered = append(filtered, inc)
		}
	}
	return filtered
}

func matches(inc models.Incident, f models.FilterState) bool {
	if f.Estado != "" && string(inc.Estado) != f.Estado {
		return false
	}
	if f.Urgencia != "" && string(inc.Urgencia) != f.Urgencia {
		return false
	}
	if f.Tipo != "" && string(inc.Tipo) != f.Tipo {
		return false
	}
	if f.FechaDesde != "" {
		if desde, err := time.Parse(dateLayout, f.FechaDesde); err == nil {
			if inc.FechaReporte.Before(desde) {
				return false
			}
		}
	}
	if f.FechaHasta != "" {
		if hasta, err := time.Parse(dateLayout, f.FechaHasta); err == nil {
			// extremo superior inclusivo: el día completo hasta 23:59:59.999
			hasta = hasta.Add(24*time.Hour - time.Millisecond)
			if inc.FechaReporte.After(hasta) {
				return false
			}
		}
	}
	if f.Busqueda != "" {
		q := strings.ToLower(f.Busqueda)
		if !strings.Contains(strings.ToLower(inc.Titulo), q) &&
			!strings.Contains(strings.ToLower(inc.Descripcion), q) &&
			!strings.Contains(strings.ToLower(inc.ID), q) {
			return false
		}
	}
	return true
}

// Params traduce los campos estructurados del filtro a parámetros de
// consulta para el endpoint de listado del backend. La búsqueda libre no se
// incluye: esa dimensión se filtra siempre localmente.
func Params(f models.FilterState) url.Values {
	params := url.Values{}
	if f.Estado != "" {
		params.Set("estado", f.Estado)
	}
	if f.Urgencia != "" {
		params.Set("urgencia", f.Urgencia)
	}
	if f.Tipo != "" {
		params.Set("tipo", f.Tipo)
	}
	if f.FechaDesde != "" {
		params.Set("fechaDesde", f.FechaDesde)
	}
	if f.FechaHasta != "" {
		params.Set("fechaHasta", f.FechaHasta)
	}
	return params
}
