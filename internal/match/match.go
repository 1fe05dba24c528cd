// Package match decide si el campo de asignación de un incidente identifica
// al usuario actual. El backend ha guardado en ese campo un nombre, un email
// o un id según la época, y a veces uno incrustado en un texto más largo, así
// que la comparación es deliberadamente permisiva.
package match

import (
	"strings"

	"github.com/alerta-utec/incident_dashboard/internal/models"
)

// IsAssignedTo indica si el incidente está asignado al usuario dado.
// Un incidente sin asignar no coincide con nadie. En otro caso basta una
// coincidencia exacta (sensible o no a mayúsculas) o por contención de
// subcadena en cualquier dirección contra nombre, email o id. La
// permisividad admite falsos positivos por colisión de subcadenas; no
// endurecer sin confirmar la semántica real del campo en el backend.
func IsAssignedTo(inc models.Incident, user models.User) bool {
	assigned := strings.TrimSpace(inc.AtendidoPor)
	if assigned == "" {
		return false
	}
	for _, identity := range []string{user.Nombre, user.Email, user.ID} {
		if matchesIdentity(assigned, identity) {
			return true
		}
	}
	return false
}

func matchesIdentity(assigned, identity string) bool {
	if identity == "" {
		return false
	}
	if assigned == identity {
		return true
	}
	if strings.EqualFold(assigned, identity) {
		return true
	}
	return strings.Contains(assigned, identity) || strings.Contains(identity, assigned)
}
