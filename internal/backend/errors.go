package backend

import "errors"

// Errores tipados del backend de incidentes. Los handlers los traducen a
// mensajes visibles para el usuario; ninguno es fatal para el proceso.
var (
	// ErrSessionExpired: 401 en un endpoint protegido; la sesión debe
	// limpiarse y el usuario volver a iniciar sesión.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials: 401 devuelto por los endpoints de
	// autenticación; son credenciales incorrectas, no una sesión caducada.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound = errors.New("incident not found")

	// ErrConflict: el incidente ya está asignado a otro trabajador.
	ErrConflict = errors.New("incident already assigned")
)
