package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fidelyaAPI/internal/asociacion"
)

type AsociacionService struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewAsociacionService(db *pgxpool.Pool, logger zerolog.Logger) *AsociacionService {
	return &AsociacionService{
		db:     db,
		logger: logger.With().Str("component", "asociacion-service").Logger(),
	}
}

func (s *AsociacionService) Create(ctx context.Context, req *asociacion.CreateAsociacionRequest) (*asociacion.Asociacion, error) {
	nueva := &asociacion.Asociacion{}
	err := s.db.QueryRow(ctx, `
		INSERT INTO asociaciones (id, nombre, estado)
		VALUES ($1, $2, $3)
		RETURNING id, nombre, estado, creado_en, actualizado_en
	`, uuid.New().String(), req.Nombre, asociacion.EstadoActivo,
	).Scan(&nueva.ID, &nueva.Nombre, &nueva.Estado, &nueva.CreadoEn, &nueva.ActualizadoEn)
	if err != nil {
		return nil, fmt.Errorf("crear asociacion: %w", err)
	}

	s.logger.Info().Str("asociacion_id", nueva.ID).Msg("asociacion creada")
	return nueva, nil
}

func (s *AsociacionService) Get(ctx context.Context, id string) (*asociacion.Asociacion, error) {
	a := &asociacion.Asociacion{}
	err := s.db.QueryRow(ctx, `
		SELECT id, nombre, estado, creado_en, actualizado_en
		FROM asociaciones WHERE id = $1
	`, id).Scan(&a.ID, &a.Nombre, &a.Estado, &a.CreadoEn, &a.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("leer asociacion: %w", err)
	}
	return a, nil
}

func (s *AsociacionService) List(ctx context.Context) ([]*asociacion.Asociacion, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, nombre, estado, creado_en, actualizado_en
		FROM asociaciones ORDER BY nombre
	`)
	if err != nil {
		return nil, fmt.Errorf("listar asociaciones: %w", err)
	}
	defer rows.Close()

	var asociaciones []*asociacion.Asociacion
	for rows.Next() {
		a := &asociacion.Asociacion{}
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Estado, &a.CreadoEn, &a.ActualizadoEn); err != nil {
			return nil, err
		}
		asociaciones = append(asociaciones, a)
	}
	return asociaciones, rows.Err()
}
