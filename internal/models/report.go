package models

// TypeCount es la cantidad de incidentes de un tipo dado.
type TypeCount struct {
	Tipo     IncidentType `json:"tipo"`
	Cantidad int          `json:"cantidad"`
}

// LocationCount es la cantidad de incidentes en una ubicación dada.
type LocationCount struct {
	Ubicacion string `json:"ubicacion"`
	Cantidad  int    `json:"cantidad"`
}

// ReportData es el resumen agregado que alimenta el panel del supervisor.
type ReportData struct {
	TotalIncidentes          int             `json:"totalIncidentes"`
	Pendientes               int             `json:"pendientes"`
	TiempoPromedioResolucion int             `json:"tiempoPromedioResolucion"` // minutos
	CasosCriticos            int             `json:"casosCriticos"`
	DistribucionPorTipo      []TypeCount     `json:"distribucionPorTipo"`
	DistribucionPorUbicacion []LocationCount `json:"distribucionPorUbicacion"`
}
