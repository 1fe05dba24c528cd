package models

// FilterState es el conjunto de filtros estructurados del panel.
// Un campo vacío no impone restricción sobre esa dimensión.
// FechaDesde y FechaHasta usan el formato "2006-01-02"; el rango es
// inclusivo en ambos extremos (FechaHasta se extiende a fin de día).
type FilterState struct {
	Estado     string `form:"estado" json:"estado,omitempty"`
	Urgencia   string `form:"urgencia" json:"urgencia,omitempty"`
	Tipo       string `form:"tipo" json:"tipo,omitempty"`
	FechaDesde string `form:"fechaDesde" json:"fechaDesde,omitempty"`
	FechaHasta string `form:"fechaHasta" json:"fechaHasta,omitempty"`
	Busqueda   string `form:"busqueda" json:"busqueda,omitempty"`
}
