package validacion

import (
	"time"

	"fidelyaAPI/internal/beneficio"
)

// Error tags carried on failed results.
const (
	ErrorInvalidQR    = "INVALID_QR"
	ErrorValidacion   = "VALIDATION_ERROR"
	ErrorUsoBeneficio = "BENEFIT_USAGE_ERROR"
)

type ValidarRequest struct {
	SocioID      string       `json:"socioId" validate:"required"`
	ComercioID   string       `json:"comercioId" validate:"required"`
	BeneficioID  string       `json:"beneficioId,omitempty"`
	AsociacionID string       `json:"asociacionId,omitempty"`
	Ubicacion    *Ubicacion   `json:"ubicacion,omitempty"`
	Dispositivo  *Dispositivo `json:"dispositivo,omitempty"`
}

type UsarBeneficioRequest struct {
	BeneficioID string   `json:"beneficioId" validate:"required"`
	MontoCompra *float64 `json:"montoCompra,omitempty"`
}

// Resultado is the envelope every executor call returns. Message is
// already localized and suitable for direct display.
type Resultado struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *ResultadoData `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type ResultadoData struct {
	Comercio   *ComercioResumen   `json:"comercio"`
	Socio      *SocioResumen      `json:"socio"`
	Validacion *ValidacionResumen `json:"validacion"`
	Beneficio  *beneficio.Resumen `json:"beneficio,omitempty"`
}

type ComercioResumen struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria,omitempty"`
}

type SocioResumen struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	NumeroSocio string `json:"numeroSocio"`
}

type ValidacionResumen struct {
	ID             string    `json:"id"`
	Codigo         string    `json:"codigo"`
	Fecha          time.Time `json:"fecha"`
	MontoDescuento float64   `json:"montoDescuento,omitempty"`
	CodigoUso      string    `json:"codigoUso,omitempty"`
}

// Historial is a page of validation records for a member.
type Historial struct {
	Validaciones []*Validacion `json:"validaciones"`
	HasMore      bool          `json:"hasMore"`
	LastDoc      string        `json:"lastDoc,omitempty"`
}

// Estadisticas aggregates a merchant's validation activity.
type Estadisticas struct {
	TotalValidaciones int `json:"totalValidaciones"`
	ValidacionesHoy   int `json:"validacionesHoy"`
	ValidacionesMes   int `json:"validacionesMes"`
	SociosUnicos      int `json:"sociosUnicos"`
	BeneficiosUsados  int `json:"beneficiosUsados"`
}
