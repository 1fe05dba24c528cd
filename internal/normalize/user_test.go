package normalize

import (
	"testing"

	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_LegacyKeysAndRoleDefault(t *testing.T) {
	raw := map[string]any{
		"_id":  "u-9",
		"name": "Mario Quispe",
		"foto": "mario.png",
	}

	u := User(raw)

	assert.Equal(t, "u-9", u.ID)
	assert.Equal(t, "Mario Quispe", u.Nombre)
	assert.Equal(t, "mario.png", u.Avatar)
	// sin rol declarado el usuario queda como trabajador
	assert.Equal(t, models.RoleTrabajador, u.Rol)
}

func TestUser_UnknownRoleDegrades(t *testing.T) {
	u := User(map[string]any{"id": "u-1", "rol": "becario"})

	assert.Equal(t, models.RoleTrabajador, u.Rol)
}

func TestUsers_DropsMalformedRecords(t *testing.T) {
	raws := []map[string]any{
		{"id": "u-1", "nombre": "Luis"},
		nil,
		{"id": "u-2", "nombre": "Carmen", "rol": "supervisor"},
	}

	users := Users(testLogger(), raws)

	require.Len(t, users, 2)
	assert.Equal(t, "u-1", users[0].ID)
	assert.Equal(t, models.RoleSupervisor, users[1].Rol)
}
