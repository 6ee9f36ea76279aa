package services

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidelyaAPI/internal/beneficio"
	"fidelyaAPI/internal/comercio"
	"fidelyaAPI/internal/socio"
	"fidelyaAPI/internal/validacion"
)

func TestReglasSocio(t *testing.T) {
	tests := []struct {
		name      string
		estado    string
		membresia string
		wantMsg   string
	}{
		{"activo", socio.EstadoActivo, socio.MembresiaActiva, ""},
		{"cuenta inactiva", socio.EstadoInactivo, socio.MembresiaActiva, "Tu cuenta no está activa. Contacta a tu asociación."},
		{"membresia vencida", socio.EstadoActivo, socio.MembresiaVencida, "Tu membresía está vencida. Regulariza tu cuota para acceder a los beneficios."},
		{"membresia pendiente", socio.EstadoActivo, socio.MembresiaPendiente, "Tu membresía está pendiente de aprobación."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reglasSocio(&socio.Socio{Estado: tt.estado, EstadoMembresia: tt.membresia})
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var regla *errorDeRegla
			require.ErrorAs(t, err, &regla)
			assert.Equal(t, tt.wantMsg, regla.msg)
		})
	}
}

func TestReglasSocioInactivoGanaSobreMembresia(t *testing.T) {
	// An inactive account is reported before any membership problem.
	err := reglasSocio(&socio.Socio{Estado: socio.EstadoInactivo, EstadoMembresia: socio.MembresiaVencida})
	require.Error(t, err)
	assert.Equal(t, "Tu cuenta no está activa. Contacta a tu asociación.", err.Error())
}

func TestReglasComercio(t *testing.T) {
	activo := &comercio.Comercio{
		Estado:                 comercio.EstadoActivo,
		AsociacionesVinculadas: []string{"asoc-1"},
	}

	assert.NoError(t, reglasComercio(activo, "asoc-1"))

	err := reglasComercio(activo, "asoc-2")
	require.Error(t, err)
	assert.Equal(t, "El comercio no tiene convenio con tu asociación", err.Error())

	inactivo := &comercio.Comercio{Estado: comercio.EstadoInactivo, AsociacionesVinculadas: []string{"asoc-1"}}
	err = reglasComercio(inactivo, "asoc-1")
	require.Error(t, err)
	assert.Equal(t, "El comercio no está activo", err.Error())
}

func TestFiltrarElegibles(t *testing.T) {
	beneficios := []*beneficio.Beneficio{
		{ID: "b1", Titulo: "para todos"},
		{ID: "b2", Titulo: "solo asoc-1", AsociacionesDisponibles: []string{"asoc-1"}},
		{ID: "b3", Titulo: "solo asoc-2", AsociacionesDisponibles: []string{"asoc-2"}},
	}

	elegibles := filtrarElegibles(beneficios, "asoc-1")
	require.Len(t, elegibles, 2)
	assert.Equal(t, "b1", elegibles[0].ID)
	assert.Equal(t, "b2", elegibles[1].ID)

	assert.Empty(t, filtrarElegibles([]*beneficio.Beneficio{
		{ID: "b3", AsociacionesDisponibles: []string{"asoc-2"}},
	}, "asoc-1"))
}

func TestReglaValidacionSinUso(t *testing.T) {
	sinUso := &validacion.Validacion{ID: "val-1"}
	assert.NoError(t, reglaValidacionSinUso(sinUso))

	// Once a usage snapshot exists, every further redemption attempt on
	// the same validation is rejected, no matter which benefit it names.
	usada := &validacion.Validacion{
		ID:             "val-1",
		BeneficioUsado: &beneficio.Resumen{ID: "ben-1", Titulo: "10% off", Tipo: beneficio.TipoPorcentaje},
	}
	err := reglaValidacionSinUso(usada)
	require.Error(t, err)

	var regla *errorDeRegla
	require.ErrorAs(t, err, &regla)
	assert.Equal(t, "Ya se utilizó un beneficio en esta validación", regla.msg)
}

func TestReglaLimitePorSocio(t *testing.T) {
	limite := 2

	sinLimite := &beneficio.Beneficio{}
	assert.NoError(t, reglaLimitePorSocio(sinLimite, 100))

	conLimite := &beneficio.Beneficio{LimitePorSocio: &limite}
	assert.NoError(t, reglaLimitePorSocio(conLimite, 0))
	assert.NoError(t, reglaLimitePorSocio(conLimite, 1))

	err := reglaLimitePorSocio(conLimite, 2)
	require.Error(t, err)
	assert.Equal(t, "Alcanzaste el límite de usos de este beneficio", err.Error())

	err = reglaLimitePorSocio(conLimite, 3)
	require.Error(t, err)
}

func TestReglasUsoBeneficio(t *testing.T) {
	val := &validacion.Validacion{AsociacionID: "asoc-1"}
	limite := 5

	activo := &beneficio.Beneficio{Estado: beneficio.EstadoActivo}
	assert.NoError(t, reglasUsoBeneficio(val, activo))

	inactivo := &beneficio.Beneficio{Estado: beneficio.EstadoInactivo}
	err := reglasUsoBeneficio(val, inactivo)
	require.Error(t, err)
	assert.Equal(t, "El beneficio no está activo", err.Error())

	otraAsociacion := &beneficio.Beneficio{
		Estado:                  beneficio.EstadoActivo,
		AsociacionesDisponibles: []string{"asoc-2"},
	}
	err = reglasUsoBeneficio(val, otraAsociacion)
	require.Error(t, err)
	assert.Equal(t, "El beneficio no está disponible para tu asociación", err.Error())

	agotado := &beneficio.Beneficio{
		Estado:       beneficio.EstadoActivo,
		LimiteTotal:  &limite,
		UsosActuales: 5,
	}
	err = reglasUsoBeneficio(val, agotado)
	require.Error(t, err)
	assert.Equal(t, "El beneficio alcanzó su límite de usos", err.Error())

	conCupo := &beneficio.Beneficio{
		Estado:       beneficio.EstadoActivo,
		LimiteTotal:  &limite,
		UsosActuales: 4,
	}
	assert.NoError(t, reglasUsoBeneficio(val, conCupo))
}

func TestCursorRoundtrip(t *testing.T) {
	fecha := time.Date(2025, 6, 15, 18, 30, 45, 123456789, time.UTC)

	cursor := codificarCursor(fecha, "val-99")
	gotFecha, gotID, err := decodificarCursor(cursor)

	require.NoError(t, err)
	assert.True(t, fecha.Equal(gotFecha))
	assert.Equal(t, "val-99", gotID)
}

func TestDecodificarCursorInvalido(t *testing.T) {
	_, _, err := decodificarCursor("sin-separador")
	assert.Error(t, err)

	_, _, err = decodificarCursor("no-es-fecha|val-1")
	assert.Error(t, err)
}

func TestEsConflictoDeSerializacion(t *testing.T) {
	assert.True(t, esConflictoDeSerializacion(&pgconn.PgError{Code: "40001"}))
	assert.True(t, esConflictoDeSerializacion(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, esConflictoDeSerializacion(&pgconn.PgError{Code: "23505"}))
	assert.False(t, esConflictoDeSerializacion(errors.New("connection refused")))
	assert.False(t, esConflictoDeSerializacion(nil))
}
