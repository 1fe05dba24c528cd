package normalize

import (
	"github.com/alerta-utec/incident_dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

var userKeys = struct {
	ID, Nombre, Email, Rol, Area, Avatar []string
}{
	ID:     []string{"id", "_id"},
	Nombre: []string{"nombre", "name", "nombre_completo", "fullName"},
	Email:  []string{"email", "correo"},
	Rol:    []string{"rol", "role"},
	Area:   []string{"area"},
	Avatar: []string{"avatar", "foto"},
}

// Claves bajo las que la respuesta de autenticación envuelve al usuario.
var UserEnvelopeKeys = []string{"user", "usuario", "data"}

// Claves bajo las que el backend envuelve el listado de usuarios.
var UserListEnvelopeKeys = []string{"data", "usuarios", "users", "trabajadores"}

// User convierte el registro de usuario que devuelve el backend en la
// identidad canónica. Mismas cadenas de claves tolerantes que el resto de
// la normalización; el rol desconocido degrada a trabajador.
func User(raw map[string]any) models.User {
	if raw == nil {
		return models.User{}
	}
	u := models.User{
		ID:     strOr(raw, userKeys.ID, ""),
		Nombre: strOr(raw, userKeys.Nombre, ""),
		Email:  strOr(raw, userKeys.Email, ""),
		Rol:    models.UserRole(strOr(raw, userKeys.Rol, string(models.RoleTrabajador))),
		Area:   models.WorkerArea(strOr(raw, userKeys.Area, "")),
		Avatar: strOr(raw, userKeys.Avatar, ""),
	}
	switch u.Rol {
	case models.RoleSupervisor, models.RoleTrabajador, models.RoleAdmin:
	default:
		u.Rol = models.RoleTrabajador
	}
	return u
}

// Users normaliza el listado de usuarios descartando los registros sin forma
// de objeto, igual que el resto de colecciones.
func Users(log logrus.FieldLogger, raws []map[string]any) []models.User {
	users := make([]models.User, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			log.WithField("index", i).Warn("Dropping malformed user record")
			continue
		}
		users = append(users, User(raw))
	}
	return users
}
