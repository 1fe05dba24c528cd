package match

import (
	"testing"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsAssignedTo(t *testing.T) {
	user := models.User{
		ID:     "u-42",
		Nombre: "Luis Paredes",
		Email:  "luis.paredes@utec.edu.pe",
	}

	tests := []struct {
		name     string
		assigned string
		want     bool
	}{
		{"sin asignar no coincide con nadie", "", false},
		{"solo espacios equivale a sin asignar", "   ", false},
		{"nombre exacto", "Luis Paredes", true},
		{"nombre sin distinguir mayúsculas", "luis paredes", true},
		{"email exacto", "luis.paredes@utec.edu.pe", true},
		{"email en mayúsculas", "LUIS.PAREDES@UTEC.EDU.PE", true},
		{"id exacto", "u-42", true},
		{"identidad incrustada en texto más largo", "Asignado a Luis Paredes (turno tarde)", true},
		{"campo contenido en la identidad", "luis.paredes", true},
		{"otra persona", "María Gómez", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := models.Incident{AtendidoPor: tt.assigned}
			assert.Equal(t, tt.want, IsAssignedTo(inc, user))
		})
	}
}

func TestIsAssignedTo_EmptyIdentityFieldsNeverMatch(t *testing.T) {
	// Un usuario sin email ni id no debe coincidir por el campo vacío.
	user := models.User{Nombre: "Luis Paredes"}
	inc := models.Incident{AtendidoPor: "María Gómez"}
	assert.False(t, IsAssignedTo(inc, user))
}
