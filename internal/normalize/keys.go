package normalize

import (
	"time"
)

// El esquema del backend ha cambiado varias veces (camelCase, snake_case,
// nombres en inglés). Cada campo canónico declara su lista ordenada de
// claves candidatas: se resuelve de izquierda a derecha y gana la primera
// definida y no nula.
var incidentKeys = struct {
	ID, Titulo, Descripcion, Tipo, Urgencia, Estado   []string
	Ubicacion, ReportadoPor, AtendidoPor              []string
	FechaReporte, FechaActualizacion, FechaResolucion []string
	Comentarios, Evidencias, TiempoResolucion         []string
}{
	ID:                 []string{"id", "_id"},
	Titulo:             []string{"titulo", "title", "descripcion", "description"},
	Descripcion:        []string{"descripcion", "description"},
	Tipo:               []string{"tipo", "type"},
	Urgencia:           []string{"urgencia", "urgency"},
	Estado:             []string{"estado", "status"},
	Ubicacion:          []string{"ubicacion", "location"},
	ReportadoPor:       []string{"reportadoPor", "reportedBy", "reportado_por"},
	AtendidoPor:        []string{"atendidoPor", "asignadoA", "assignedTo", "asignado_a"},
	FechaReporte:       []string{"fechaReporte", "fecha_reporte", "createdAt", "created_at"},
	FechaActualizacion: []string{"fechaActualizacion", "fecha_actualizacion", "updatedAt", "updated_at"},
	FechaResolucion:    []string{"fechaResolucion", "fecha_resolucion", "resolvedAt", "resolved_at"},
	Comentarios:        []string{"comentarios", "comments"},
	Evidencias:         []string{"evidencias", "evidence"},
	TiempoResolucion:   []string{"tiempoResolucion", "resolutionTime", "tiempo_resolucion"},
}

var historyKeys = struct {
	ID, Tipo, Usuario, Descripcion, Fecha, Metadata []string
}{
	ID:          []string{"id", "_id"},
	Tipo:        []string{"tipo", "type"},
	Usuario:     []string{"usuario", "user", "usuario_nombre"},
	Descripcion: []string{"descripcion", "description", "mensaje"},
	Fecha:       []string{"fecha", "fecha_evento", "createdAt", "created_at"},
	Metadata:    []string{"metadata", "metadatos"},
}

var commentKeys = struct {
	ID, Autor, Contenido, Fecha, Tipo []string
}{
	ID:        []string{"id", "_id"},
	Autor:     []string{"autor", "author", "usuario", "user"},
	Contenido: []string{"contenido", "content", "texto", "mensaje"},
	Fecha:     []string{"fecha", "date", "createdAt", "created_at"},
	Tipo:      []string{"tipo", "type"},
}

// Claves bajo las que el backend envuelve las colecciones en la respuesta.
var (
	IncidentEnvelopeKeys = []string{"data", "incidentes", "incidents"}
	HistoryEnvelopeKeys  = []string{"data", "historial", "events"}
)

// timeNow se reemplaza en tests para fechas por defecto deterministas.
var timeNow = time.Now

// field devuelve el primer valor definido y no nulo entre las claves candidatas.
func field(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// str resuelve un campo de texto; valores no-string se descartan.
func str(raw map[string]any, keys []string) (string, bool) {
	v, ok := field(raw, keys)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func strOr(raw map[string]any, keys []string, def string) string {
	if s, ok := str(raw, keys); ok {
		return s
	}
	return def
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime acepta fechas ISO en varias variantes y números epoch
// (milisegundos o segundos, según magnitud).
func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case float64:
		if t <= 0 {
			return time.Time{}, false
		}
		if t > 1e12 { // epoch en milisegundos
			return time.UnixMilli(int64(t)).UTC(), true
		}
		return time.Unix(int64(t), 0).UTC(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

// timeAt resuelve un campo de fecha siguiendo la cadena de claves candidatas.
func timeAt(raw map[string]any, keys []string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if parsed, ok := parseTime(v); ok {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// intAt resuelve un campo numérico entero (los números JSON llegan como float64).
func intAt(raw map[string]any, keys []string) (int, bool) {
	v, ok := field(raw, keys)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
