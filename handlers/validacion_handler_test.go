package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fidelyaAPI/internal/realtime"
	"fidelyaAPI/internal/validacion"
)

type mockValidacionAPI struct {
	mock.Mock
}

func (m *mockValidacionAPI) ValidarAcceso(ctx context.Context, req *validacion.ValidarRequest) *validacion.Resultado {
	args := m.Called(ctx, req)
	return args.Get(0).(*validacion.Resultado)
}

func (m *mockValidacionAPI) UsarBeneficio(ctx context.Context, validacionID, beneficioID string, montoCompra *float64) *validacion.Resultado {
	args := m.Called(ctx, validacionID, beneficioID, montoCompra)
	return args.Get(0).(*validacion.Resultado)
}

func (m *mockValidacionAPI) HistorialSocio(ctx context.Context, socioID string, pageSize int, cursor string) (*validacion.Historial, error) {
	args := m.Called(ctx, socioID, pageSize, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validacion.Historial), args.Error(1)
}

func (m *mockValidacionAPI) EstadisticasComercio(ctx context.Context, comercioID string) (*validacion.Estadisticas, error) {
	args := m.Called(ctx, comercioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validacion.Estadisticas), args.Error(1)
}

func (m *mockValidacionAPI) UltimasValidaciones(ctx context.Context, comercioID string, limite int) ([]*validacion.Validacion, error) {
	args := m.Called(ctx, comercioID, limite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*validacion.Validacion), args.Error(1)
}

func newTestHandler(api ValidacionAPI) (*ValidacionHandler, *realtime.Manager) {
	rt := realtime.NewManager(5*time.Millisecond, zerolog.Nop())
	return NewValidacionHandler(api, rt, 200*time.Millisecond), rt
}

func TestValidarRespondeEnvelopeConHTTP200(t *testing.T) {
	api := &mockValidacionAPI{}
	api.On("ValidarAcceso", mock.Anything, mock.MatchedBy(func(req *validacion.ValidarRequest) bool {
		return req.SocioID == "soc-1" && req.ComercioID == "com-1"
	})).Return(&validacion.Resultado{
		Success: false,
		Message: "Tu membresía está vencida. Regulariza tu cuota para acceder a los beneficios.",
		Error:   validacion.ErrorValidacion,
	})

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	body := bytes.NewBufferString(`{"socioId":"soc-1","comercioId":"com-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validaciones/validar", body)
	rec := httptest.NewRecorder()

	h.Validar(rec, req)

	// Business rejections still travel as HTTP 200; clients branch on the flag.
	require.Equal(t, http.StatusOK, rec.Code)

	var resultado validacion.Resultado
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resultado))
	assert.False(t, resultado.Success)
	assert.Equal(t, validacion.ErrorValidacion, resultado.Error)
	api.AssertExpectations(t)
}

func TestValidarBodyInvalido(t *testing.T) {
	api := &mockValidacionAPI{}
	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validaciones/validar", bytes.NewBufferString("{no json"))
	rec := httptest.NewRecorder()

	h.Validar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.AssertNotCalled(t, "ValidarAcceso")
}

func TestUsarBeneficio(t *testing.T) {
	monto := 200.0
	api := &mockValidacionAPI{}
	api.On("UsarBeneficio", mock.Anything, "val-1", "ben-1", &monto).Return(&validacion.Resultado{
		Success: true,
		Message: "Beneficio aplicado correctamente",
	})

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	body := bytes.NewBufferString(`{"beneficioId":"ben-1","montoCompra":200}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validaciones/val-1/usar-beneficio", body)
	req = mux.SetURLVars(req, map[string]string{"id": "val-1"})
	rec := httptest.NewRecorder()

	h.UsarBeneficio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resultado validacion.Resultado
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resultado))
	assert.True(t, resultado.Success)
	api.AssertExpectations(t)
}

func TestUsarBeneficioSinBeneficioID(t *testing.T) {
	api := &mockValidacionAPI{}
	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validaciones/val-1/usar-beneficio", bytes.NewBufferString(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "val-1"})
	rec := httptest.NewRecorder()

	h.UsarBeneficio(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.AssertNotCalled(t, "UsarBeneficio")
}

func TestHistorialRequiereSocioID(t *testing.T) {
	api := &mockValidacionAPI{}
	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/validaciones/historial", nil)
	rec := httptest.NewRecorder()

	h.Historial(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	api.AssertNotCalled(t, "HistorialSocio")
}

func TestHistorial(t *testing.T) {
	api := &mockValidacionAPI{}
	api.On("HistorialSocio", mock.Anything, "soc-1", 10, "abc").Return(&validacion.Historial{
		Validaciones: []*validacion.Validacion{{ID: "val-1"}},
		HasMore:      true,
		LastDoc:      "cursor-siguiente",
	}, nil)

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/validaciones/historial?socioId=soc-1&pageSize=10&cursor=abc", nil)
	rec := httptest.NewRecorder()

	h.Historial(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var historial validacion.Historial
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &historial))
	assert.True(t, historial.HasMore)
	assert.Equal(t, "cursor-siguiente", historial.LastDoc)
	require.Len(t, historial.Validaciones, 1)
	assert.Equal(t, "val-1", historial.Validaciones[0].ID)
}

func TestEstadisticas(t *testing.T) {
	api := &mockValidacionAPI{}
	api.On("EstadisticasComercio", mock.Anything, "com-1").Return(&validacion.Estadisticas{
		TotalValidaciones: 42,
		ValidacionesHoy:   3,
		SociosUnicos:      17,
	}, nil)

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comercios/com-1/estadisticas", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "com-1"})
	rec := httptest.NewRecorder()

	h.Estadisticas(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats validacion.Estadisticas
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 42, stats.TotalValidaciones)
	assert.Equal(t, 17, stats.SociosUnicos)
}

func TestFeedEntregaSnapshot(t *testing.T) {
	api := &mockValidacionAPI{}
	api.On("UltimasValidaciones", mock.Anything, "com-1", 10).Return([]*validacion.Validacion{
		{ID: "val-1", ComercioID: "com-1"},
	}, nil)

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comercios/com-1/feed", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "com-1"})
	rec := httptest.NewRecorder()

	h.Feed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var validaciones []*validacion.Validacion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &validaciones))
	require.Len(t, validaciones, 1)
	assert.Equal(t, "val-1", validaciones[0].ID)

	// The request-scoped subscription must not outlive the handler.
	assert.Equal(t, 0, rt.Activas())
}

func TestFeedExpiraConListaVacia(t *testing.T) {
	api := &mockValidacionAPI{}
	api.On("UltimasValidaciones", mock.Anything, "com-1", 10).Return(nil, context.DeadlineExceeded)

	h, rt := newTestHandler(api)
	defer rt.Cerrar()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comercios/com-1/feed", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "com-1"})
	rec := httptest.NewRecorder()

	h.Feed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
