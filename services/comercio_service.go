package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"fidelyaAPI/internal/comercio"
)

type ComercioService struct {
	db        *pgxpool.Pool
	logger    zerolog.Logger
	qrBaseURI string
}

func NewComercioService(db *pgxpool.Pool, qrBaseURI string, logger zerolog.Logger) *ComercioService {
	return &ComercioService{
		db:        db,
		logger:    logger.With().Str("component", "comercio-service").Logger(),
		qrBaseURI: qrBaseURI,
	}
}

func (s *ComercioService) Create(ctx context.Context, req *comercio.CreateComercioRequest) (*comercio.Comercio, error) {
	nuevo := &comercio.Comercio{}
	err := s.db.QueryRow(ctx, `
		INSERT INTO comercios (id, nombre, email, categoria, direccion, estado)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, nombre, email, categoria, direccion, estado,
		          asociaciones_vinculadas, validaciones_totales,
		          clientes_atendidos, ingresos_mensuales, qr_generado_en,
		          creado_en, actualizado_en
	`, uuid.New().String(), req.Nombre, req.Email, req.Categoria, req.Direccion, comercio.EstadoActivo,
	).Scan(&nuevo.ID, &nuevo.Nombre, &nuevo.Email, &nuevo.Categoria, &nuevo.Direccion,
		&nuevo.Estado, &nuevo.AsociacionesVinculadas, &nuevo.ValidacionesTotales,
		&nuevo.ClientesAtendidos, &nuevo.IngresosMensuales, &nuevo.QRGeneradoEn,
		&nuevo.CreadoEn, &nuevo.ActualizadoEn)
	if err != nil {
		return nil, fmt.Errorf("crear comercio: %w", err)
	}

	s.logger.Info().Str("comercio_id", nuevo.ID).Msg("comercio creado")
	return nuevo, nil
}

func (s *ComercioService) Get(ctx context.Context, id string) (*comercio.Comercio, error) {
	com := &comercio.Comercio{}
	err := s.db.QueryRow(ctx, `
		SELECT id, nombre, email, categoria, direccion, estado,
		       asociaciones_vinculadas, validaciones_totales,
		       clientes_atendidos, ingresos_mensuales, qr_generado_en,
		       creado_en, actualizado_en
		FROM comercios WHERE id = $1
	`, id).Scan(&com.ID, &com.Nombre, &com.Email, &com.Categoria, &com.Direccion,
		&com.Estado, &com.AsociacionesVinculadas, &com.ValidacionesTotales,
		&com.ClientesAtendidos, &com.IngresosMensuales, &com.QRGeneradoEn,
		&com.CreadoEn, &com.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("leer comercio: %w", err)
	}
	return com, nil
}

func (s *ComercioService) Update(ctx context.Context, id string, req *comercio.UpdateComercioRequest) (*comercio.Comercio, error) {
	com := &comercio.Comercio{}
	err := s.db.QueryRow(ctx, `
		UPDATE comercios
		SET nombre = COALESCE(NULLIF($2, ''), nombre),
		    email = COALESCE(NULLIF($3, ''), email),
		    categoria = COALESCE(NULLIF($4, ''), categoria),
		    direccion = COALESCE(NULLIF($5, ''), direccion),
		    estado = COALESCE(NULLIF($6, ''), estado),
		    actualizado_en = NOW()
		WHERE id = $1
		RETURNING id, nombre, email, categoria, direccion, estado,
		          asociaciones_vinculadas, validaciones_totales,
		          clientes_atendidos, ingresos_mensuales, qr_generado_en,
		          creado_en, actualizado_en
	`, id, req.Nombre, req.Email, req.Categoria, req.Direccion, req.Estado,
	).Scan(&com.ID, &com.Nombre, &com.Email, &com.Categoria, &com.Direccion,
		&com.Estado, &com.AsociacionesVinculadas, &com.ValidacionesTotales,
		&com.ClientesAtendidos, &com.IngresosMensuales, &com.QRGeneradoEn,
		&com.CreadoEn, &com.ActualizadoEn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoEncontrado
		}
		return nil, fmt.Errorf("actualizar comercio: %w", err)
	}
	return com, nil
}

// VincularAsociacion adds the association to the merchant's affiliation
// set. Linking an already linked association is a no-op.
func (s *ComercioService) VincularAsociacion(ctx context.Context, comercioID, asociacionID string) error {
	var existe bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM asociaciones WHERE id = $1)`, asociacionID).Scan(&existe)
	if err != nil {
		return fmt.Errorf("verificar asociacion: %w", err)
	}
	if !existe {
		return fmt.Errorf("asociación no encontrada: %s", asociacionID)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE comercios
		SET asociaciones_vinculadas = array_append(asociaciones_vinculadas, $2),
		    actualizado_en = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(asociaciones_vinculadas))
	`, comercioID, asociacionID)
	if err != nil {
		return fmt.Errorf("vincular asociacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either already linked or the merchant is gone; distinguish.
		if _, err := s.Get(ctx, comercioID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComercioService) DesvincularAsociacion(ctx context.Context, comercioID, asociacionID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE comercios
		SET asociaciones_vinculadas = array_remove(asociaciones_vinculadas, $2),
		    actualizado_en = NOW()
		WHERE id = $1
	`, comercioID, asociacionID)
	if err != nil {
		return fmt.Errorf("desvincular asociacion: %w", err)
	}
	return nil
}

// GenerarQR renders the merchant's scannable code as a base64 PNG. The
// QR payload is just the deep link with the merchant id; all business
// checks happen at validation time.
func (s *ComercioService) GenerarQR(ctx context.Context, comercioID string) (*comercio.QRResponse, error) {
	com, err := s.Get(ctx, comercioID)
	if err != nil {
		return nil, err
	}

	contenido := fmt.Sprintf("%s/%s", s.qrBaseURI, com.ID)

	pngBytes, err := qrcode.Encode(contenido, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generar QR png: %w", err)
	}

	ahora := time.Now()
	if _, err := s.db.Exec(ctx, `UPDATE comercios SET qr_generado_en = $2 WHERE id = $1`, com.ID, ahora); err != nil {
		return nil, fmt.Errorf("registrar generacion de QR: %w", err)
	}

	return &comercio.QRResponse{
		ComercioID:   com.ID,
		Contenido:    contenido,
		QRCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
		GeneradoEn:   ahora,
	}, nil
}
