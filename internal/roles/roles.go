package roles

// Rol es el conjunto cerrado de roles del sistema. Agregar un rol nuevo
// exige revisar las tablas de capacidades de este paquete.
type Rol string

const (
	Admin           Rol = "admin"
	Supervisor      Rol = "supervisor"
	Agente          Rol = "agente"
	Jefe            Rol = "jefe"
	Gerente         Rol = "gerente"
	Coordinador     Rol = "coordinador"
	Asistente       Rol = "asistente"
	CentroDeControl Rol = "centro_de_control"
	Oficina         Rol = "oficina"
)

// Valores lista todos los roles, en el orden en que se muestran en la UI.
var Valores = []Rol{
	Admin, Supervisor, Agente, Jefe, Gerente,
	Coordinador, Asistente, CentroDeControl, Oficina,
}

func (r Rol) Valido() bool {
	switch r {
	case Admin, Supervisor, Agente, Jefe, Gerente,
		Coordinador, Asistente, CentroDeControl, Oficina:
		return true
	}
	return false
}

// Capacidad es un permiso nombrado que se otorga a un subconjunto de roles.
type Capacidad string

const (
	AccesoHistorial Capacidad = "historial"
	AccesoMapa      Capacidad = "mapa"
	AccesoAdmin     Capacidad = "admin"
)

var rolesConHistorial = map[Rol]bool{
	Admin:           true,
	Asistente:       true,
	Jefe:            true,
	Gerente:         true,
	CentroDeControl: true,
}

var rolesConMapa = map[Rol]bool{
	Admin:           true,
	Asistente:       true,
	Jefe:            true,
	Gerente:         true,
	CentroDeControl: true,
}

var rolesAdmin = map[Rol]bool{
	Admin: true,
}

// TieneAccesoHistorial indica si el rol puede consultar asistencias de
// otros usuarios. Los roles sin esta capacidad solo ven las propias.
func TieneAccesoHistorial(r Rol) bool {
	return rolesConHistorial[r]
}

func TieneAccesoMapa(r Rol) bool {
	return rolesConMapa[r]
}

func EsAdmin(r Rol) bool {
	return rolesAdmin[r]
}

func TieneCapacidad(r Rol, c Capacidad) bool {
	switch c {
	case AccesoHistorial:
		return TieneAccesoHistorial(r)
	case AccesoMapa:
		return TieneAccesoMapa(r)
	case AccesoAdmin:
		return EsAdmin(r)
	}
	return false
}
