package beneficio

import "time"

type CreateBeneficioRequest struct {
	ComercioID              string     `json:"comercioId" validate:"required"`
	Titulo                  string     `json:"titulo" validate:"required"`
	Descripcion             string     `json:"descripcion,omitempty"`
	Tipo                    string     `json:"tipo" validate:"required"`
	Descuento               float64    `json:"descuento"`
	LimiteTotal             *int       `json:"limiteTotal,omitempty"`
	LimitePorSocio          *int       `json:"limitePorSocio,omitempty"`
	AsociacionesDisponibles []string   `json:"asociacionesDisponibles,omitempty"`
	FechaInicio             *time.Time `json:"fechaInicio,omitempty"`
	FechaFin                *time.Time `json:"fechaFin,omitempty"`
}

type UpdateBeneficioRequest struct {
	Titulo                  string     `json:"titulo,omitempty"`
	Descripcion             string     `json:"descripcion,omitempty"`
	Descuento               *float64   `json:"descuento,omitempty"`
	LimiteTotal             *int       `json:"limiteTotal,omitempty"`
	LimitePorSocio          *int       `json:"limitePorSocio,omitempty"`
	AsociacionesDisponibles []string   `json:"asociacionesDisponibles,omitempty"`
	FechaFin                *time.Time `json:"fechaFin,omitempty"`
}
