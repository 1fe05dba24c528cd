package models

// UserRole es el rol de un usuario dentro del sistema.
type UserRole string

const (
	RoleSupervisor UserRole = "supervisor"
	RoleTrabajador UserRole = "trabajador"
	RoleAdmin      UserRole = "admin"
)

// WorkerArea es el área de trabajo de un trabajador.
type WorkerArea string

const (
	AreaLimpieza       WorkerArea = "limpieza"
	AreaTI             WorkerArea = "TI"
	AreaSeguridad      WorkerArea = "seguridad"
	AreaMantenimiento  WorkerArea = "mantenimiento"
	AreaAdministracion WorkerArea = "administracion"
)

// User es la identidad canónica del usuario autenticado. El backend puede
// referirse a él por nombre, email o id indistintamente; el matcher de
// asignación compara contra los tres campos.
type User struct {
	ID     string     `json:"id"`
	Nombre string     `json:"nombre"`
	Email  string     `json:"email"`
	Rol    UserRole   `json:"rol"`
	Area   WorkerArea `json:"area,omitempty"`
	Avatar string     `json:"avatar,omitempty"`
}
