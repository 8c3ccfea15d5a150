// Package turno resuelve a qué turno y a qué fecha de turno pertenece un
// instante dado. El turno día cubre de 07:00 a 19:00 hora local y el turno
// noche el resto, cruzando la medianoche.
package turno

import "time"

type Turno string

const (
	Dia   Turno = "DIA"
	Noche Turno = "NOCHE"
)

const fechaFormato = "2006-01-02"

// TurnoActual devuelve DIA para horas en [7, 19) y NOCHE para el resto.
func TurnoActual(t time.Time) Turno {
	hora := t.Hour()
	if hora >= 7 && hora < 19 {
		return Dia
	}
	return Noche
}

// FechaTurno devuelve la fecha calendario a la que se atribuye el turno en
// curso. Antes de las 07:00 el turno noche abierto comenzó la víspera, por lo
// que se atribuye al día anterior; así un mismo turno noche no se parte en
// dos fechas.
func FechaTurno(t time.Time) string {
	if t.Hour() < 7 {
		return t.AddDate(0, 0, -1).Format(fechaFormato)
	}
	return t.Format(fechaFormato)
}
