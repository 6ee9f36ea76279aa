package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fidelyaAPI/internal/socio"
)

var ErrNoEncontrado = errors.New("registro no encontrado")

type SocioService struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewSocioService(db *pgxpool.Pool, logger zerolog.Logger) *SocioService {
	return &SocioService{
		db:     db,
		logger: logger.With().Str("component", "socio-service").Logger(),
	}
}

func (s *SocioService) Create(ctx context.Context, req *socio.CreateSocioRequest) (*socio.Socio, error) {
	var existe bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM asociaciones WHERE id = $1)`, req.AsociacionID).Scan(&existe)
	if err != nil {
		return nil, fmt.Errorf("verificar asociacion: %w", err)
	}
	if !existe {
		return nil, fmt.Errorf("asociación no encontrada: %s", req.AsociacionID)
	}

	nuevo := &socio.Socio{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO socios (id, nombre, email, numero_socio, estado, estado_membresia, asociacion_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, nombre, email, numero_socio, estado, estado_membresia,
		          asociacion_id, validaciones_realizadas, ultima_validacion,
		          creado_en, actualizado_en
	`, uuid.New().String(), req.Nombre, req.Email, req.NumeroSocio,
		socio.EstadoActivo, socio.MembresiaPendiente, req.AsociacionID,
	).Scan(&nuevo.ID, &nuevo.Nombre, &nuevo.Email, &nuevo.NumeroSocio,
		&nuevo.Estado, &nuevo.EstadoMembresia, &nuevo.AsociacionID,
		&nuevo.ValidacionesRealizadas, &nuevo.UltimaValidacion,
		&nuevo.CreadoEn, &nuevo.ActualizadoEn)
	if err != nil {
		return nil, fmt.Errorf("crear socio: %w", err)
	}

	s.logger.Info().Str("socio_id", nuevo.ID).Str("asociacion_id", nuevo.AsociacionID).Msg("socio creado")
	return nuevo, nil
}

func (s *SocioService) Get(ctx context.Context, id string) (*socio.Socio, error) {
	soc := &socio.Socio{}
	err := s.db.QueryRow(ctx, `
		SELECT id, nombre, email, numero_socio, estado, estado_membresia,
		       asociacion_id, validaciones_realizadas, ultima_validacion,
		       creado_en, actualizado_en
		FROM socios WHERE id = $1
	`, id).Scan(&soc.ID, &soc.Nombre, &soc.Email, &soc.NumeroSocio,
		&soc.Estado, &soc.EstadoMembresia, &soc.AsociacionID,
		&soc.ValidacionesRealizadas, &soc.UltimaValidacion,
		&soc.CreadoEn, &soc.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("leer socio: %w", err)
	}
	return soc, nil
}

// Update applies the non-empty fields of the request. Estado and
// membresía changes come from the association's management flows.
func (s *SocioService) Update(ctx context.Context, id string, req *socio.UpdateSocioRequest) (*socio.Socio, error) {
	soc := &socio.Socio{}
	err := s.db.QueryRow(ctx, `
		UPDATE socios
		SET nombre = COALESCE(NULLIF($2, ''), nombre),
		    email = COALESCE(NULLIF($3, ''), email),
		    estado = COALESCE(NULLIF($4, ''), estado),
		    estado_membresia = COALESCE(NULLIF($5, ''), estado_membresia),
		    actualizado_en = NOW()
		WHERE id = $1
		RETURNING id, nombre, email, numero_socio, estado, estado_membresia,
		          asociacion_id, validaciones_realizadas, ultima_validacion,
		          creado_en, actualizado_en
	`, id, req.Nombre, req.Email, req.Estado, req.EstadoMembresia,
	).Scan(&soc.ID, &soc.Nombre, &soc.Email, &soc.NumeroSocio,
		&soc.Estado, &soc.EstadoMembresia, &soc.AsociacionID,
		&soc.ValidacionesRealizadas, &soc.UltimaValidacion,
		&soc.CreadoEn, &soc.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("actualizar socio: %w", err)
	}
	return soc, nil
}

func (s *SocioService) ListPorAsociacion(ctx context.Context, asociacionID string) ([]*socio.Socio, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, nombre, email, numero_socio, estado, estado_membresia,
		       asociacion_id, validaciones_realizadas, ultima_validacion,
		       creado_en, actualizado_en
		FROM socios
		WHERE asociacion_id = $1
		ORDER BY nombre
	`, asociacionID)
	if err != nil {
		return nil, fmt.Errorf("listar socios: %w", err)
	}
	defer rows.Close()

	var socios []*socio.Socio
	for rows.Next() {
		soc := &socio.Socio{}
		err := rows.Scan(&soc.ID, &soc.Nombre, &soc.Email, &soc.NumeroSocio,
			&soc.Estado, &soc.EstadoMembresia, &soc.AsociacionID,
			&soc.ValidacionesRealizadas, &soc.UltimaValidacion,
			&soc.CreadoEn, &soc.ActualizadoEn)
		if err != nil {
			return nil, err
		}
		socios = append(socios, soc)
	}
	return socios, rows.Err()
}
