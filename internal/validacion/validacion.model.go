package validacion

import (
	"time"

	"fidelyaAPI/internal/beneficio"
)

// Validacion is a single scan event. Member and merchant names are
// denormalized onto the record so history views never need joins.
type Validacion struct {
	ID               string `json:"id"`
	CodigoValidacion string `json:"codigoValidacion"`

	SocioID     string `json:"socioId"`
	SocioNombre string `json:"socioNombre"`
	NumeroSocio string `json:"numeroSocio"`

	AsociacionID string `json:"asociacionId"`

	ComercioID     string `json:"comercioId"`
	ComercioNombre string `json:"comercioNombre"`

	BeneficiosDisponibles []beneficio.Resumen `json:"beneficiosDisponibles"`

	// BeneficioUsado transitions from nil to exactly one snapshot, at
	// most once.
	BeneficioUsado *beneficio.Resumen `json:"beneficioUsado,omitempty"`
	MontoDescuento float64            `json:"montoDescuento"`
	MontoCompra    *float64           `json:"montoCompra,omitempty"`
	CodigoUso      string             `json:"codigoUso,omitempty"`

	Ubicacion   *Ubicacion   `json:"ubicacion,omitempty"`
	Dispositivo *Dispositivo `json:"dispositivo,omitempty"`

	FechaValidacion time.Time  `json:"fechaValidacion"`
	FechaUso        *time.Time `json:"fechaUso,omitempty"`
}

type Ubicacion struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Dispositivo struct {
	Tipo    string `json:"tipo"`
	Version string `json:"version"`
}
