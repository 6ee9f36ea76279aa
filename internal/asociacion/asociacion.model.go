package asociacion

import "time"

const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

type Asociacion struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Estado        string    `json:"estado"`
	CreadoEn      time.Time `json:"creadoEn"`
	ActualizadoEn time.Time `json:"actualizadoEn"`
}

type CreateAsociacionRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}
