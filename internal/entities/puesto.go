package entities

type Puesto struct {
	ID       string
	UnidadID string
	Nombre   string
	Activo   bool
	Unidad   *UnidadResumen
}

type PuestoResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
