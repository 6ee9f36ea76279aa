package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fidelyaAPI/internal/notification"
)

// PushProvider abstracts the push transport so the service works with
// or without FCM credentials present.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
	push   PushProvider
}

func NewNotificationService(db *pgxpool.Pool, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		db:     db,
		logger: logger.With().Str("component", "notification-service").Logger(),
	}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// RegistrarDispositivo upserts the device token for a socio.
func (s *NotificationService) RegistrarDispositivo(ctx context.Context, req *notification.RegistrarDispositivoRequest) (*notification.DeviceToken, error) {
	token := &notification.DeviceToken{}
	err := s.db.QueryRow(ctx, `
		INSERT INTO dispositivos (id, socio_id, token, plataforma)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (socio_id, token)
		DO UPDATE SET plataforma = EXCLUDED.plataforma, registrado_en = NOW()
		RETURNING id, socio_id, token, plataforma, registrado_en
	`, uuid.New().String(), req.SocioID, req.Token, req.Plataforma,
	).Scan(&token.ID, &token.SocioID, &token.Token, &token.Plataforma, &token.RegistradoEn)
	if err != nil {
		return nil, fmt.Errorf("registrar dispositivo: %w", err)
	}
	return token, nil
}

// NotificarValidacion pushes a "validación exitosa" message to every
// device the socio registered. Best-effort: failures are logged, never
// surfaced to the validation flow.
func (s *NotificationService) NotificarValidacion(ctx context.Context, socioID, comercioNombre string, cantidadBeneficios int) {
	if s.push == nil {
		return
	}

	tokens, err := s.tokensDeSocio(ctx, socioID)
	if err != nil {
		s.logger.Warn().Err(err).Str("socio_id", socioID).Msg("no se pudieron cargar dispositivos")
		return
	}
	if len(tokens) == 0 {
		return
	}

	titulo := "Validación exitosa"
	cuerpo := fmt.Sprintf("Accediste a %s. Beneficios disponibles: %d", comercioNombre, cantidadBeneficios)
	data := map[string]any{
		"tipo":     "validacion",
		"comercio": comercioNombre,
	}

	if err := s.push.SendPush(ctx, tokens, titulo, cuerpo, data); err != nil {
		s.logger.Warn().Err(err).Str("socio_id", socioID).Msg("push de validacion fallido")
	}
}

func (s *NotificationService) tokensDeSocio(ctx context.Context, socioID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, socio_id, token, plataforma, registrado_en
		FROM dispositivos WHERE socio_id = $1
	`, socioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		t := notification.DeviceToken{}
		if err := rows.Scan(&t.ID, &t.SocioID, &t.Token, &t.Plataforma, &t.RegistradoEn); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
