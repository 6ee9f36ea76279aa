package socio

import "time"

const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

const (
	MembresiaActiva    = "activo"
	MembresiaVencida   = "vencido"
	MembresiaPendiente = "pendiente"
)

type Socio struct {
	ID                     string     `json:"id"`
	Nombre                 string     `json:"nombre"`
	Email                  string     `json:"email"`
	NumeroSocio            string     `json:"numeroSocio"`
	Estado                 string     `json:"estado"`
	EstadoMembresia        string     `json:"estadoMembresia"`
	AsociacionID           string     `json:"asociacionId"`
	ValidacionesRealizadas int        `json:"validacionesRealizadas"`
	UltimaValidacion       *time.Time `json:"ultimaValidacion,omitempty"`
	CreadoEn               time.Time  `json:"creadoEn"`
	ActualizadoEn          time.Time  `json:"actualizadoEn"`
}
