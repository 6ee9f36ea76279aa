package beneficio

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EstadoActivo   = "activo"
	EstadoInactivo = "inactivo"
)

// Discount types as presented to the client.
const (
	TipoPorcentaje     = "porcentaje"
	TipoMontoFijo      = "monto_fijo"
	TipoProductoGratis = "producto_gratis"
)

type Beneficio struct {
	ID                      string     `json:"id"`
	ComercioID              string     `json:"comercioId"`
	Titulo                  string     `json:"titulo"`
	Descripcion             string     `json:"descripcion,omitempty"`
	Tipo                    string     `json:"tipo"`
	Descuento               float64    `json:"descuento"`
	Estado                  string     `json:"estado"`
	LimiteTotal             *int       `json:"limiteTotal,omitempty"`
	LimitePorSocio          *int       `json:"limitePorSocio,omitempty"`
	UsosActuales            int        `json:"usosActuales"`
	AsociacionesDisponibles []string   `json:"asociacionesDisponibles"`
	FechaInicio             *time.Time `json:"fechaInicio,omitempty"`
	FechaFin                *time.Time `json:"fechaFin,omitempty"`
	CreadoEn                time.Time  `json:"creadoEn"`
	ActualizadoEn           time.Time  `json:"actualizadoEn"`
}

// Resumen is the denormalized snapshot stored on validation records.
type Resumen struct {
	ID        string  `json:"id"`
	Titulo    string  `json:"titulo"`
	Descuento float64 `json:"descuento"`
	Tipo      string  `json:"tipo"`
}

// Resumen returns the snapshot form of the benefit.
func (b *Beneficio) Resumen() Resumen {
	return Resumen{
		ID:        b.ID,
		Titulo:    b.Titulo,
		Descuento: b.Descuento,
		Tipo:      b.Tipo,
	}
}

// DisponiblePara reports whether the benefit can be redeemed by members
// of the given association. An empty restriction list means every
// affiliated association is eligible.
func (b *Beneficio) DisponiblePara(asociacionID string) bool {
	if len(b.AsociacionesDisponibles) == 0 {
		return true
	}
	for _, id := range b.AsociacionesDisponibles {
		if id == asociacionID {
			return true
		}
	}
	return false
}

// CalcularDescuento computes the monetary discount for a purchase.
// Without a purchase amount the discount is always zero, including for
// fixed-amount benefits.
func (b *Beneficio) CalcularDescuento(montoCompra float64) float64 {
	if montoCompra <= 0 {
		return 0
	}

	switch b.Tipo {
	case TipoPorcentaje:
		monto := decimal.NewFromFloat(montoCompra).
			Mul(decimal.NewFromFloat(b.Descuento)).
			Div(decimal.NewFromInt(100))
		return monto.Round(2).InexactFloat64()
	case TipoMontoFijo:
		return b.Descuento
	case TipoProductoGratis:
		return 0
	default:
		return 0
	}
}
