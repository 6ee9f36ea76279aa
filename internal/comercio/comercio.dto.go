package comercio

import "time"

type CreateComercioRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Categoria string `json:"categoria,omitempty"`
	Direccion string `json:"direccion,omitempty"`
}

type UpdateComercioRequest struct {
	Nombre    string `json:"nombre,omitempty"`
	Email     string `json:"email,omitempty"`
	Categoria string `json:"categoria,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Estado    string `json:"estado,omitempty"`
}

type QRResponse struct {
	ComercioID   string    `json:"comercioId"`
	Contenido    string    `json:"contenido"`
	QRCodeBase64 string    `json:"qrCodeBase64"`
	GeneradoEn   time.Time `json:"generadoEn"`
}
