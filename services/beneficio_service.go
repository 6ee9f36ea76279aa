package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fidelyaAPI/internal/beneficio"
)

type BeneficioService struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewBeneficioService(db *pgxpool.Pool, logger zerolog.Logger) *BeneficioService {
	return &BeneficioService{
		db:     db,
		logger: logger.With().Str("component", "beneficio-service").Logger(),
	}
}

func validarTipoBeneficio(tipo string, descuento float64) error {
	switch tipo {
	case beneficio.TipoPorcentaje:
		if descuento <= 0 || descuento > 100 {
			return fmt.Errorf("descuento porcentual fuera de rango: %v", descuento)
		}
	case beneficio.TipoMontoFijo:
		if descuento <= 0 {
			return fmt.Errorf("monto fijo inválido: %v", descuento)
		}
	case beneficio.TipoProductoGratis:
		// No monetary value attached.
	default:
		return fmt.Errorf("tipo de beneficio desconocido: %s", tipo)
	}
	return nil
}

func (s *BeneficioService) Create(ctx context.Context, req *beneficio.CreateBeneficioRequest) (*beneficio.Beneficio, error) {
	if err := validarTipoBeneficio(req.Tipo, req.Descuento); err != nil {
		return nil, err
	}

	var existe bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comercios WHERE id = $1)`, req.ComercioID).Scan(&existe)
	if err != nil {
		return nil, fmt.Errorf("verificar comercio: %w", err)
	}
	if !existe {
		return nil, fmt.Errorf("comercio no encontrado: %s", req.ComercioID)
	}

	asociaciones := req.AsociacionesDisponibles
	if asociaciones == nil {
		asociaciones = []string{}
	}

	nuevo := &beneficio.Beneficio{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO beneficios (
			id, comercio_id, titulo, descripcion, tipo, descuento, estado,
			limite_total, limite_por_socio, asociaciones_disponibles,
			fecha_inicio, fecha_fin
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, comercio_id, titulo, descripcion, tipo, descuento,
		          estado, limite_total, limite_por_socio, usos_actuales,
		          asociaciones_disponibles, fecha_inicio, fecha_fin,
		          creado_en, actualizado_en
	`, uuid.New().String(), req.ComercioID, req.Titulo, req.Descripcion,
		req.Tipo, req.Descuento, beneficio.EstadoActivo,
		req.LimiteTotal, req.LimitePorSocio, asociaciones,
		req.FechaInicio, req.FechaFin,
	).Scan(&nuevo.ID, &nuevo.ComercioID, &nuevo.Titulo, &nuevo.Descripcion,
		&nuevo.Tipo, &nuevo.Descuento, &nuevo.Estado,
		&nuevo.LimiteTotal, &nuevo.LimitePorSocio, &nuevo.UsosActuales,
		&nuevo.AsociacionesDisponibles, &nuevo.FechaInicio, &nuevo.FechaFin,
		&nuevo.CreadoEn, &nuevo.ActualizadoEn)
	if err != nil {
		return nil, fmt.Errorf("crear beneficio: %w", err)
	}

	s.logger.Info().Str("beneficio_id", nuevo.ID).Str("comercio_id", nuevo.ComercioID).Msg("beneficio creado")
	return nuevo, nil
}

func (s *BeneficioService) Get(ctx context.Context, id string) (*beneficio.Beneficio, error) {
	ben := &beneficio.Beneficio{}
	err := s.db.QueryRow(ctx, `
		SELECT id, comercio_id, titulo, descripcion, tipo, descuento,
		       estado, limite_total, limite_por_socio, usos_actuales,
		       asociaciones_disponibles, fecha_inicio, fecha_fin,
		       creado_en, actualizado_en
		FROM beneficios WHERE id = $1
	`, id).Scan(&ben.ID, &ben.ComercioID, &ben.Titulo, &ben.Descripcion,
		&ben.Tipo, &ben.Descuento, &ben.Estado,
		&ben.LimiteTotal, &ben.LimitePorSocio, &ben.UsosActuales,
		&ben.AsociacionesDisponibles, &ben.FechaInicio, &ben.FechaFin,
		&ben.CreadoEn, &ben.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("leer beneficio: %w", err)
	}
	return ben, nil
}

func (s *BeneficioService) Update(ctx context.Context, id string, req *beneficio.UpdateBeneficioRequest) (*beneficio.Beneficio, error) {
	ben, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Titulo != "" {
		ben.Titulo = req.Titulo
	}
	if req.Descripcion != "" {
		ben.Descripcion = req.Descripcion
	}
	if req.Descuento != nil {
		if err := validarTipoBeneficio(ben.Tipo, *req.Descuento); err != nil {
			return nil, err
		}
		ben.Descuento = *req.Descuento
	}
	if req.LimiteTotal != nil {
		ben.LimiteTotal = req.LimiteTotal
	}
	if req.LimitePorSocio != nil {
		ben.LimitePorSocio = req.LimitePorSocio
	}
	if req.AsociacionesDisponibles != nil {
		ben.AsociacionesDisponibles = req.AsociacionesDisponibles
	}
	if req.FechaFin != nil {
		ben.FechaFin = req.FechaFin
	}

	err = s.db.QueryRow(ctx, `
		UPDATE beneficios
		SET titulo = $2, descripcion = $3, descuento = $4,
		    limite_total = $5, limite_por_socio = $6,
		    asociaciones_disponibles = $7, fecha_fin = $8,
		    actualizado_en = NOW()
		WHERE id = $1
		RETURNING actualizado_en
	`, ben.ID, ben.Titulo, ben.Descripcion, ben.Descuento,
		ben.LimiteTotal, ben.LimitePorSocio, ben.AsociacionesDisponibles, ben.FechaFin,
	).Scan(&ben.ActualizadoEn)
	if err != nil {
		return nil, fmt.Errorf("actualizar beneficio: %w", err)
	}

	return ben, nil
}

func (s *BeneficioService) Desactivar(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE beneficios SET estado = $2, actualizado_en = NOW() WHERE id = $1
	`, id, beneficio.EstadoInactivo)
	if err != nil {
		return fmt.Errorf("desactivar beneficio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEncontrado
	}
	return nil
}

// ListActivosPorComercio returns the merchant's active benefits,
// optionally filtered to those a given association is eligible for.
func (s *BeneficioService) ListActivosPorComercio(ctx context.Context, comercioID, asociacionID string) ([]*beneficio.Beneficio, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, comercio_id, titulo, descripcion, tipo, descuento,
		       estado, limite_total, limite_por_socio, usos_actuales,
		       asociaciones_disponibles, fecha_inicio, fecha_fin,
		       creado_en, actualizado_en
		FROM beneficios
		WHERE comercio_id = $1 AND estado = $2
		ORDER BY creado_en DESC
	`, comercioID, beneficio.EstadoActivo)
	if err != nil {
		return nil, fmt.Errorf("listar beneficios: %w", err)
	}
	defer rows.Close()

	var beneficios []*beneficio.Beneficio
	for rows.Next() {
		ben := &beneficio.Beneficio{}
		err := rows.Scan(&ben.ID, &ben.ComercioID, &ben.Titulo, &ben.Descripcion,
			&ben.Tipo, &ben.Descuento, &ben.Estado,
			&ben.LimiteTotal, &ben.LimitePorSocio, &ben.UsosActuales,
			&ben.AsociacionesDisponibles, &ben.FechaInicio, &ben.FechaFin,
			&ben.CreadoEn, &ben.ActualizadoEn)
		if err != nil {
			return nil, err
		}
		if asociacionID != "" && !ben.DisponiblePara(asociacionID) {
			continue
		}
		beneficios = append(beneficios, ben)
	}
	return beneficios, rows.Err()
}
