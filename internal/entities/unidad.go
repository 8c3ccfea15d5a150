package entities

type Unidad struct {
	ID        string
	Nombre    string
	Ciudad    string
	Direccion *string
	Activo    bool
}

type UnidadResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Ciudad string `json:"ciudad"`
}
