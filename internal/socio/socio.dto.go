package socio

type CreateSocioRequest struct {
	Nombre       string `json:"nombre" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	NumeroSocio  string `json:"numeroSocio" validate:"required"`
	AsociacionID string `json:"asociacionId" validate:"required"`
}

type UpdateSocioRequest struct {
	Nombre          string `json:"nombre,omitempty"`
	Email           string `json:"email,omitempty"`
	Estado          string `json:"estado,omitempty"`
	EstadoMembresia string `json:"estadoMembresia,omitempty"`
}
