package notification

import "time"

// DeviceToken is a push-capable device registered by a socio.
type DeviceToken struct {
	ID           string    `json:"id"`
	SocioID      string    `json:"socioId"`
	Token        string    `json:"token"`
	Plataforma   string    `json:"plataforma"`
	RegistradoEn time.Time `json:"registradoEn"`
}

type RegistrarDispositivoRequest struct {
	SocioID    string `json:"socioId" validate:"required"`
	Token      string `json:"token" validate:"required"`
	Plataforma string `json:"plataforma,omitempty"`
}
