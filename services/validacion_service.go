package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"fidelyaAPI/internal/beneficio"
	"fidelyaAPI/internal/comercio"
	"fidelyaAPI/internal/socio"
	"fidelyaAPI/internal/validacion"
	"fidelyaAPI/utils"
)

// maxReintentosTx bounds the optimistic retry loop on serialization
// conflicts, mirroring the store-side retry contract both executors
// depend on for correctness.
const maxReintentosTx = 3

var (
	validacionesMetric = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fidelya_validaciones_total",
			Help: "Validation attempts by outcome",
		},
		[]string{"resultado"},
	)
	beneficiosUsadosMetric = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fidelya_beneficios_usados_total",
			Help: "Benefit redemption attempts by outcome",
		},
		[]string{"resultado"},
	)
)

// InitMetrics registers the validation metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(validacionesMetric)
	prometheus.MustRegister(beneficiosUsadosMetric)
}

// errorDeRegla is a business-rule rejection. Its message is localized
// and goes straight into the result envelope.
type errorDeRegla struct {
	msg string
}

func (e *errorDeRegla) Error() string { return e.msg }

func reglaViolada(msg string) error { return &errorDeRegla{msg: msg} }

type ValidacionService struct {
	db             *pgxpool.Pool
	logger         zerolog.Logger
	notificaciones *NotificationService
}

func NewValidacionService(db *pgxpool.Pool, logger zerolog.Logger) *ValidacionService {
	return &ValidacionService{
		db:     db,
		logger: logger.With().Str("component", "validacion-service").Logger(),
	}
}

// SetNotificaciones injects the push notifier. Without it validations
// still succeed, just silently.
func (s *ValidacionService) SetNotificaciones(n *NotificationService) {
	s.notificaciones = n
}

// ValidarAcceso runs the validation transaction: re-reads socio,
// comercio and the merchant's active benefits inside one serializable
// transaction, evaluates eligibility, and creates the validation record
// plus both counter updates atomically.
func (s *ValidacionService) ValidarAcceso(ctx context.Context, req *validacion.ValidarRequest) *validacion.Resultado {
	if req.ComercioID == "" {
		validacionesMetric.WithLabelValues("qr_invalido").Inc()
		return &validacion.Resultado{
			Success: false,
			Message: "Código QR inválido",
			Error:   validacion.ErrorInvalidQR,
		}
	}

	var data *validacion.ResultadoData
	var nombreComercio string
	var cantidadBeneficios int

	err := s.enTransaccion(ctx, func(tx pgx.Tx) error {
		soc, err := leerSocioTx(ctx, tx, req.SocioID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return reglaViolada("Socio no encontrado")
			}
			return fmt.Errorf("leer socio: %w", err)
		}
		if err := reglasSocio(soc); err != nil {
			return err
		}

		com, err := leerComercioTx(ctx, tx, req.ComercioID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return reglaViolada("Comercio no encontrado")
			}
			return fmt.Errorf("leer comercio: %w", err)
		}
		if err := reglasComercio(com, soc.AsociacionID); err != nil {
			return err
		}

		beneficios, err := leerBeneficiosActivosTx(ctx, tx, com.ID)
		if err != nil {
			return fmt.Errorf("leer beneficios: %w", err)
		}

		elegibles := filtrarElegibles(beneficios, soc.AsociacionID)
		if len(elegibles) == 0 {
			return reglaViolada("No hay beneficios disponibles para tu asociación")
		}

		id := uuid.New().String()
		codigo := utils.GenerarCodigoValidacion()
		ahora := time.Now()

		beneficiosJSON, err := json.Marshal(elegibles)
		if err != nil {
			return fmt.Errorf("serializar beneficios: %w", err)
		}

		var ubicacionJSON, dispositivoJSON []byte
		if req.Ubicacion != nil {
			ubicacionJSON, _ = json.Marshal(req.Ubicacion)
		}
		if req.Dispositivo != nil {
			dispositivoJSON, _ = json.Marshal(req.Dispositivo)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO validaciones (
				id, codigo_validacion, socio_id, socio_nombre, numero_socio,
				asociacion_id, comercio_id, comercio_nombre,
				beneficios_disponibles, monto_descuento,
				ubicacion, dispositivo, fecha_validacion
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12)
		`, id, codigo, soc.ID, soc.Nombre, soc.NumeroSocio,
			soc.AsociacionID, com.ID, com.Nombre,
			beneficiosJSON, ubicacionJSON, dispositivoJSON, ahora)
		if err != nil {
			return fmt.Errorf("crear validacion: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE comercios
			SET validaciones_totales = validaciones_totales + 1,
			    clientes_atendidos = clientes_atendidos + 1,
			    actualizado_en = NOW()
			WHERE id = $1
		`, com.ID)
		if err != nil {
			return fmt.Errorf("actualizar contadores de comercio: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE socios
			SET validaciones_realizadas = validaciones_realizadas + 1,
			    ultima_validacion = $2,
			    actualizado_en = NOW()
			WHERE id = $1
		`, soc.ID, ahora)
		if err != nil {
			return fmt.Errorf("actualizar contadores de socio: %w", err)
		}

		nombreComercio = com.Nombre
		cantidadBeneficios = len(elegibles)
		data = &validacion.ResultadoData{
			Comercio: &validacion.ComercioResumen{
				ID:        com.ID,
				Nombre:    com.Nombre,
				Categoria: com.Categoria,
			},
			Socio: &validacion.SocioResumen{
				ID:          soc.ID,
				Nombre:      soc.Nombre,
				NumeroSocio: soc.NumeroSocio,
			},
			Validacion: &validacion.ValidacionResumen{
				ID:     id,
				Codigo: codigo,
				Fecha:  ahora,
			},
		}
		return nil
	})

	if err != nil {
		var regla *errorDeRegla
		if errors.As(err, &regla) {
			validacionesMetric.WithLabelValues("rechazada").Inc()
			return &validacion.Resultado{
				Success: false,
				Message: regla.msg,
				Error:   validacion.ErrorValidacion,
			}
		}
		s.logger.Error().Err(err).Str("socio_id", req.SocioID).Str("comercio_id", req.ComercioID).Msg("validacion fallida")
		validacionesMetric.WithLabelValues("error").Inc()
		return &validacion.Resultado{
			Success: false,
			Message: "No se pudo completar la validación. Intenta nuevamente.",
			Error:   validacion.ErrorValidacion,
		}
	}

	validacionesMetric.WithLabelValues("exitosa").Inc()

	if s.notificaciones != nil {
		go func() {
			pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.notificaciones.NotificarValidacion(pushCtx, req.SocioID, nombreComercio, cantidadBeneficios)
		}()
	}

	return &validacion.Resultado{
		Success: true,
		Message: "Validación exitosa",
		Data:    data,
	}
}

// UsarBeneficio runs the redemption transaction: it enforces the
// at-most-once invariant on the validation record, checks usage limits,
// computes the discount, and writes the usage snapshot plus counters
// atomically.
func (s *ValidacionService) UsarBeneficio(ctx context.Context, validacionID, beneficioID string, montoCompra *float64) *validacion.Resultado {
	var data *validacion.ResultadoData

	err := s.enTransaccion(ctx, func(tx pgx.Tx) error {
		val, err := leerValidacionTx(ctx, tx, validacionID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return reglaViolada("Validación no encontrada")
			}
			return fmt.Errorf("leer validacion: %w", err)
		}
		if err := reglaValidacionSinUso(val); err != nil {
			return err
		}

		ben, err := leerBeneficioTx(ctx, tx, beneficioID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return reglaViolada("Beneficio no encontrado")
			}
			return fmt.Errorf("leer beneficio: %w", err)
		}
		if err := reglasUsoBeneficio(val, ben); err != nil {
			return err
		}

		if ben.LimitePorSocio != nil {
			var usosPrevios int
			err := tx.QueryRow(ctx, `
				SELECT COUNT(*) FROM validaciones
				WHERE socio_id = $1 AND beneficio_usado->>'id' = $2
			`, val.SocioID, ben.ID).Scan(&usosPrevios)
			if err != nil {
				return fmt.Errorf("contar usos previos: %w", err)
			}
			if err := reglaLimitePorSocio(ben, usosPrevios); err != nil {
				return err
			}
		}

		monto := 0.0
		if montoCompra != nil {
			monto = *montoCompra
		}
		descuento := ben.CalcularDescuento(monto)
		codigoUso := utils.GenerarCodigoUso()
		ahora := time.Now()

		usado := ben.Resumen()
		usadoJSON, err := json.Marshal(usado)
		if err != nil {
			return fmt.Errorf("serializar beneficio usado: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE validaciones
			SET beneficio_usado = $1,
			    monto_descuento = $2,
			    codigo_uso = $3,
			    monto_compra = $4,
			    fecha_uso = $5
			WHERE id = $6
		`, usadoJSON, descuento, codigoUso, montoCompra, ahora, val.ID)
		if err != nil {
			return fmt.Errorf("registrar uso: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE beneficios
			SET usos_actuales = usos_actuales + 1,
			    actualizado_en = NOW()
			WHERE id = $1
		`, ben.ID)
		if err != nil {
			return fmt.Errorf("actualizar usos del beneficio: %w", err)
		}

		// Revenue update is best-effort: a vanished merchant row is
		// tolerated, not fatal.
		tag, err := tx.Exec(ctx, `
			UPDATE comercios
			SET ingresos_mensuales = ingresos_mensuales + $1,
			    actualizado_en = NOW()
			WHERE id = $2
		`, monto, ben.ComercioID)
		if err != nil {
			return fmt.Errorf("actualizar ingresos del comercio: %w", err)
		}
		if tag.RowsAffected() == 0 {
			s.logger.Debug().Str("comercio_id", ben.ComercioID).Msg("comercio ausente al registrar ingresos")
		}

		data = &validacion.ResultadoData{
			Comercio: &validacion.ComercioResumen{
				ID:     val.ComercioID,
				Nombre: val.ComercioNombre,
			},
			Socio: &validacion.SocioResumen{
				ID:          val.SocioID,
				Nombre:      val.SocioNombre,
				NumeroSocio: val.NumeroSocio,
			},
			Validacion: &validacion.ValidacionResumen{
				ID:             val.ID,
				Codigo:         val.CodigoValidacion,
				Fecha:          val.FechaValidacion,
				MontoDescuento: descuento,
				CodigoUso:      codigoUso,
			},
			Beneficio: &usado,
		}
		return nil
	})

	if err != nil {
		var regla *errorDeRegla
		if errors.As(err, &regla) {
			beneficiosUsadosMetric.WithLabelValues("rechazado").Inc()
			return &validacion.Resultado{
				Success: false,
				Message: regla.msg,
				Error:   validacion.ErrorUsoBeneficio,
			}
		}
		s.logger.Error().Err(err).Str("validacion_id", validacionID).Str("beneficio_id", beneficioID).Msg("uso de beneficio fallido")
		beneficiosUsadosMetric.WithLabelValues("error").Inc()
		return &validacion.Resultado{
			Success: false,
			Message: "No se pudo registrar el uso del beneficio. Intenta nuevamente.",
			Error:   validacion.ErrorUsoBeneficio,
		}
	}

	beneficiosUsadosMetric.WithLabelValues("exitoso").Inc()

	return &validacion.Resultado{
		Success: true,
		Message: "Beneficio aplicado correctamente",
		Data:    data,
	}
}

// HistorialSocio returns a descending-time page of the member's
// validation records, keyset-paginated on (fecha_validacion, id).
func (s *ValidacionService) HistorialSocio(ctx context.Context, socioID string, pageSize int, cursor string) (*validacion.Historial, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	query := `
		SELECT id, codigo_validacion, socio_id, socio_nombre, numero_socio,
		       asociacion_id, comercio_id, comercio_nombre,
		       beneficios_disponibles, beneficio_usado, monto_descuento,
		       monto_compra, codigo_uso, ubicacion, dispositivo,
		       fecha_validacion, fecha_uso
		FROM validaciones
		WHERE socio_id = $1
	`
	args := []any{socioID}

	if cursor != "" {
		fecha, id, err := decodificarCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor inválido: %w", err)
		}
		query += ` AND (fecha_validacion, id) < ($2, $3)`
		args = append(args, fecha, id)
	}

	query += fmt.Sprintf(` ORDER BY fecha_validacion DESC, id DESC LIMIT %d`, pageSize+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("consultar historial: %w", err)
	}
	defer rows.Close()

	var validaciones []*validacion.Validacion
	for rows.Next() {
		v, err := escanearValidacion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("escanear validacion: %w", err)
		}
		validaciones = append(validaciones, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(validaciones) > pageSize
	if hasMore {
		validaciones = validaciones[:pageSize]
	}

	historial := &validacion.Historial{
		Validaciones: validaciones,
		HasMore:      hasMore,
	}
	if len(validaciones) > 0 {
		ultima := validaciones[len(validaciones)-1]
		historial.LastDoc = codificarCursor(ultima.FechaValidacion, ultima.ID)
	}

	return historial, nil
}

// EstadisticasComercio aggregates the merchant's validation activity.
// Reads are non-transactional and reflect some committed state at or
// before read time.
func (s *ValidacionService) EstadisticasComercio(ctx context.Context, comercioID string) (*validacion.Estadisticas, error) {
	ahora := time.Now()
	inicioDia := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	inicioMes := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())

	stats := &validacion.Estadisticas{}
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE fecha_validacion >= $2),
		       COUNT(*) FILTER (WHERE fecha_validacion >= $3),
		       COUNT(DISTINCT socio_id),
		       COUNT(*) FILTER (WHERE beneficio_usado IS NOT NULL)
		FROM validaciones
		WHERE comercio_id = $1
	`, comercioID, inicioDia, inicioMes).Scan(
		&stats.TotalValidaciones,
		&stats.ValidacionesHoy,
		&stats.ValidacionesMes,
		&stats.SociosUnicos,
		&stats.BeneficiosUsados,
	)
	if err != nil {
		return nil, fmt.Errorf("consultar estadisticas: %w", err)
	}

	return stats, nil
}

// UltimasValidaciones returns the merchant's most recent validations,
// newest first. Used by the live feed.
func (s *ValidacionService) UltimasValidaciones(ctx context.Context, comercioID string, limite int) ([]*validacion.Validacion, error) {
	if limite <= 0 || limite > 50 {
		limite = 10
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, codigo_validacion, socio_id, socio_nombre, numero_socio,
		       asociacion_id, comercio_id, comercio_nombre,
		       beneficios_disponibles, beneficio_usado, monto_descuento,
		       monto_compra, codigo_uso, ubicacion, dispositivo,
		       fecha_validacion, fecha_uso
		FROM validaciones
		WHERE comercio_id = $1
		ORDER BY fecha_validacion DESC, id DESC
		LIMIT $2
	`, comercioID, limite)
	if err != nil {
		return nil, fmt.Errorf("consultar ultimas validaciones: %w", err)
	}
	defer rows.Close()

	var validaciones []*validacion.Validacion
	for rows.Next() {
		v, err := escanearValidacion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("escanear validacion: %w", err)
		}
		validaciones = append(validaciones, v)
	}
	return validaciones, rows.Err()
}

// ---------------------------------------------------------------------
// Transaction plumbing
// ---------------------------------------------------------------------

// enTransaccion executes fn inside a serializable transaction, retrying
// a bounded number of times when the database aborts on a conflicting
// concurrent commit. This preserves the re-read-then-decide-then-commit
// contract: no partial writes are ever visible.
func (s *ValidacionService) enTransaccion(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for intento := 1; intento <= maxReintentosTx; intento++ {
		err = s.ejecutarTx(ctx, fn)
		if err == nil || !esConflictoDeSerializacion(err) {
			return err
		}
		s.logger.Warn().Int("intento", intento).Msg("conflicto de serialización, reintentando")
	}
	return err
}

func (s *ValidacionService) ejecutarTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("iniciar transaccion: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func esConflictoDeSerializacion(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

// ---------------------------------------------------------------------
// Business rules
// ---------------------------------------------------------------------

func reglasSocio(s *socio.Socio) error {
	if s.Estado != socio.EstadoActivo {
		return reglaViolada("Tu cuenta no está activa. Contacta a tu asociación.")
	}
	switch s.EstadoMembresia {
	case socio.MembresiaVencida:
		return reglaViolada("Tu membresía está vencida. Regulariza tu cuota para acceder a los beneficios.")
	case socio.MembresiaPendiente:
		return reglaViolada("Tu membresía está pendiente de aprobación.")
	}
	return nil
}

func reglasComercio(c *comercio.Comercio, asociacionID string) error {
	if c.Estado != comercio.EstadoActivo {
		return reglaViolada("El comercio no está activo")
	}
	if !c.TieneConvenioCon(asociacionID) {
		return reglaViolada("El comercio no tiene convenio con tu asociación")
	}
	return nil
}

func filtrarElegibles(beneficios []*beneficio.Beneficio, asociacionID string) []beneficio.Resumen {
	elegibles := make([]beneficio.Resumen, 0, len(beneficios))
	for _, b := range beneficios {
		if b.DisponiblePara(asociacionID) {
			elegibles = append(elegibles, b.Resumen())
		}
	}
	return elegibles
}

// reglaValidacionSinUso enforces at-most-once redemption: once a
// validation carries a usage snapshot it never accepts another.
func reglaValidacionSinUso(val *validacion.Validacion) error {
	if val.BeneficioUsado != nil {
		return reglaViolada("Ya se utilizó un beneficio en esta validación")
	}
	return nil
}

func reglaLimitePorSocio(ben *beneficio.Beneficio, usosPrevios int) error {
	if ben.LimitePorSocio != nil && usosPrevios >= *ben.LimitePorSocio {
		return reglaViolada("Alcanzaste el límite de usos de este beneficio")
	}
	return nil
}

func reglasUsoBeneficio(val *validacion.Validacion, ben *beneficio.Beneficio) error {
	if ben.Estado != beneficio.EstadoActivo {
		return reglaViolada("El beneficio no está activo")
	}
	if !ben.DisponiblePara(val.AsociacionID) {
		return reglaViolada("El beneficio no está disponible para tu asociación")
	}
	if ben.LimiteTotal != nil && ben.UsosActuales >= *ben.LimiteTotal {
		return reglaViolada("El beneficio alcanzó su límite de usos")
	}
	return nil
}

// ---------------------------------------------------------------------
// Row helpers
// ---------------------------------------------------------------------

func leerSocioTx(ctx context.Context, tx pgx.Tx, id string) (*socio.Socio, error) {
	s := &socio.Socio{}
	err := tx.QueryRow(ctx, `
		SELECT id, nombre, email, numero_socio, estado, estado_membresia,
		       asociacion_id, validaciones_realizadas
		FROM socios WHERE id = $1
	`, id).Scan(&s.ID, &s.Nombre, &s.Email, &s.NumeroSocio, &s.Estado,
		&s.EstadoMembresia, &s.AsociacionID, &s.ValidacionesRealizadas)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func leerComercioTx(ctx context.Context, tx pgx.Tx, id string) (*comercio.Comercio, error) {
	c := &comercio.Comercio{}
	err := tx.QueryRow(ctx, `
		SELECT id, nombre, categoria, estado, asociaciones_vinculadas
		FROM comercios WHERE id = $1
	`, id).Scan(&c.ID, &c.Nombre, &c.Categoria, &c.Estado, &c.AsociacionesVinculadas)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func leerBeneficiosActivosTx(ctx context.Context, tx pgx.Tx, comercioID string) ([]*beneficio.Beneficio, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, comercio_id, titulo, tipo, descuento, asociaciones_disponibles
		FROM beneficios
		WHERE comercio_id = $1 AND estado = $2
	`, comercioID, beneficio.EstadoActivo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beneficios []*beneficio.Beneficio
	for rows.Next() {
		b := &beneficio.Beneficio{}
		if err := rows.Scan(&b.ID, &b.ComercioID, &b.Titulo, &b.Tipo, &b.Descuento, &b.AsociacionesDisponibles); err != nil {
			return nil, err
		}
		beneficios = append(beneficios, b)
	}
	return beneficios, rows.Err()
}

func leerBeneficioTx(ctx context.Context, tx pgx.Tx, id string) (*beneficio.Beneficio, error) {
	b := &beneficio.Beneficio{}
	err := tx.QueryRow(ctx, `
		SELECT id, comercio_id, titulo, tipo, descuento, estado,
		       limite_total, limite_por_socio, usos_actuales,
		       asociaciones_disponibles
		FROM beneficios WHERE id = $1
	`, id).Scan(&b.ID, &b.ComercioID, &b.Titulo, &b.Tipo, &b.Descuento, &b.Estado,
		&b.LimiteTotal, &b.LimitePorSocio, &b.UsosActuales, &b.AsociacionesDisponibles)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func leerValidacionTx(ctx context.Context, tx pgx.Tx, id string) (*validacion.Validacion, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, codigo_validacion, socio_id, socio_nombre, numero_socio,
		       asociacion_id, comercio_id, comercio_nombre,
		       beneficios_disponibles, beneficio_usado, monto_descuento,
		       monto_compra, codigo_uso, ubicacion, dispositivo,
		       fecha_validacion, fecha_uso
		FROM validaciones WHERE id = $1
	`, id)
	return escanearValidacion(row.Scan)
}

func escanearValidacion(scan func(dest ...any) error) (*validacion.Validacion, error) {
	v := &validacion.Validacion{}
	var beneficiosJSON, usadoJSON, ubicacionJSON, dispositivoJSON []byte
	var codigoUso *string

	err := scan(&v.ID, &v.CodigoValidacion, &v.SocioID, &v.SocioNombre, &v.NumeroSocio,
		&v.AsociacionID, &v.ComercioID, &v.ComercioNombre,
		&beneficiosJSON, &usadoJSON, &v.MontoDescuento,
		&v.MontoCompra, &codigoUso, &ubicacionJSON, &dispositivoJSON,
		&v.FechaValidacion, &v.FechaUso)
	if err != nil {
		return nil, err
	}

	if len(beneficiosJSON) > 0 {
		if err := json.Unmarshal(beneficiosJSON, &v.BeneficiosDisponibles); err != nil {
			return nil, err
		}
	}
	if len(usadoJSON) > 0 {
		usado := &beneficio.Resumen{}
		if err := json.Unmarshal(usadoJSON, usado); err != nil {
			return nil, err
		}
		v.BeneficioUsado = usado
	}
	if len(ubicacionJSON) > 0 {
		v.Ubicacion = &validacion.Ubicacion{}
		if err := json.Unmarshal(ubicacionJSON, v.Ubicacion); err != nil {
			return nil, err
		}
	}
	if len(dispositivoJSON) > 0 {
		v.Dispositivo = &validacion.Dispositivo{}
		if err := json.Unmarshal(dispositivoJSON, v.Dispositivo); err != nil {
			return nil, err
		}
	}
	if codigoUso != nil {
		v.CodigoUso = *codigoUso
	}

	return v, nil
}

// ---------------------------------------------------------------------
// Pagination cursor
// ---------------------------------------------------------------------

func codificarCursor(fecha time.Time, id string) string {
	return fecha.UTC().Format(time.RFC3339Nano) + "|" + id
}

func decodificarCursor(cursor string) (time.Time, string, error) {
	partes := strings.SplitN(cursor, "|", 2)
	if len(partes) != 2 {
		return time.Time{}, "", errors.New("formato de cursor inesperado")
	}
	fecha, err := time.Parse(time.RFC3339Nano, partes[0])
	if err != nil {
		return time.Time{}, "", err
	}
	return fecha, partes[1], nil
}
