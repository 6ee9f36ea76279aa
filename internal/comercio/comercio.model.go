package comercio

import "time"

const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

type Comercio struct {
	ID                     string     `json:"id"`
	Nombre                 string     `json:"nombre"`
	Email                  string     `json:"email"`
	Categoria              string     `json:"categoria,omitempty"`
	Direccion              string     `json:"direccion,omitempty"`
	Estado                 string     `json:"estado"`
	AsociacionesVinculadas []string   `json:"asociacionesVinculadas"`
	ValidacionesTotales    int        `json:"validacionesTotales"`
	ClientesAtendidos      int        `json:"clientesAtendidos"`
	IngresosMensuales      float64    `json:"ingresosMensuales"`
	QRGeneradoEn           *time.Time `json:"qrGeneradoEn,omitempty"`
	CreadoEn               time.Time  `json:"creadoEn"`
	ActualizadoEn          time.Time  `json:"actualizadoEn"`
}

// TieneConvenioCon reports whether the merchant is affiliated with
// the given association.
func (c *Comercio) TieneConvenioCon(asociacionID string) bool {
	for _, id := range c.AsociacionesVinculadas {
		if id == asociacionID {
			return true
		}
	}
	return false
}
