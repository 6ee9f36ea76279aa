package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fidelyaAPI/internal/realtime"
	"fidelyaAPI/internal/validacion"
)

// ValidacionAPI is what this handler needs from the validation service.
type ValidacionAPI interface {
	ValidarAcceso(ctx context.Context, req *validacion.ValidarRequest) *validacion.Resultado
	UsarBeneficio(ctx context.Context, validacionID, beneficioID string, montoCompra *float64) *validacion.Resultado
	HistorialSocio(ctx context.Context, socioID string, pageSize int, cursor string) (*validacion.Historial, error)
	EstadisticasComercio(ctx context.Context, comercioID string) (*validacion.Estadisticas, error)
	UltimasValidaciones(ctx context.Context, comercioID string, limite int) ([]*validacion.Validacion, error)
}

type ValidacionHandler struct {
	service  ValidacionAPI
	realtime *realtime.Manager
	feedWait time.Duration
}

func NewValidacionHandler(service ValidacionAPI, rt *realtime.Manager, feedWait time.Duration) *ValidacionHandler {
	return &ValidacionHandler{
		service:  service,
		realtime: rt,
		feedWait: feedWait,
	}
}

// Validar runs the validation transaction. The envelope always comes
// back with HTTP 200; clients branch on the success flag and show the
// message as-is.
func (h *ValidacionHandler) Validar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req validacion.ValidarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resultado := h.service.ValidarAcceso(ctx, &req)
	respondWithJSON(w, http.StatusOK, resultado)
}

func (h *ValidacionHandler) UsarBeneficio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	validacionID := mux.Vars(r)["id"]

	var req validacion.UsarBeneficioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BeneficioID == "" {
		respondWithError(w, http.StatusBadRequest, "beneficioId is required")
		return
	}

	resultado := h.service.UsarBeneficio(ctx, validacionID, req.BeneficioID, req.MontoCompra)
	respondWithJSON(w, http.StatusOK, resultado)
}

func (h *ValidacionHandler) Historial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	socioID := r.URL.Query().Get("socioId")
	if socioID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'socioId' is required")
		return
	}

	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	cursor := r.URL.Query().Get("cursor")

	historial, err := h.service.HistorialSocio(ctx, socioID, pageSize, cursor)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching historial")
		return
	}

	respondWithJSON(w, http.StatusOK, historial)
}

func (h *ValidacionHandler) Estadisticas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comercioID := mux.Vars(r)["id"]

	stats, err := h.service.EstadisticasComercio(ctx, comercioID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching estadisticas")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Feed long-polls the merchant's recent validations: it answers with
// the first snapshot (or the first change) the subscription delivers,
// or an empty list when the wait window expires.
func (h *ValidacionHandler) Feed(w http.ResponseWriter, r *http.Request) {
	comercioID := mux.Vars(r)["id"]

	snapshots := make(chan any, 1)
	handle := h.realtime.Suscribir("feed:"+comercioID,
		func(ctx context.Context) (any, error) {
			return h.service.UltimasValidaciones(ctx, comercioID, 10)
		},
		func(snapshot any) {
			select {
			case snapshots <- snapshot:
			default:
			}
		},
	)
	defer h.realtime.Cancelar(handle)

	select {
	case snapshot := <-snapshots:
		respondWithJSON(w, http.StatusOK, snapshot)
	case <-time.After(h.feedWait):
		respondWithJSON(w, http.StatusOK, []*validacion.Validacion{})
	case <-r.Context().Done():
	}
}
