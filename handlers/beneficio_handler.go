package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fidelyaAPI/internal/beneficio"
	"fidelyaAPI/services"
)

type BeneficioHandler struct {
	beneficioService *services.BeneficioService
}

func NewBeneficioHandler(beneficioService *services.BeneficioService) *BeneficioHandler {
	return &BeneficioHandler{
		beneficioService: beneficioService,
	}
}

func (h *BeneficioHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req beneficio.CreateBeneficioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComercioID == "" || req.Titulo == "" || req.Tipo == "" {
		respondWithError(w, http.StatusBadRequest, "comercioId, titulo and tipo are required")
		return
	}

	nuevo, err := h.beneficioService.Create(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, nuevo)
}

func (h *BeneficioHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ben, err := h.beneficioService.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Beneficio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error fetching beneficio")
		return
	}

	respondWithJSON(w, http.StatusOK, ben)
}

func (h *BeneficioHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req beneficio.UpdateBeneficioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actualizado, err := h.beneficioService.Update(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Beneficio not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, actualizado)
}

func (h *BeneficioHandler) Desactivar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.beneficioService.Desactivar(ctx, mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Beneficio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error deactivating beneficio")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Beneficio desactivado"})
}

func (h *BeneficioHandler) ListPorComercio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comercioID := r.URL.Query().Get("comercioId")
	if comercioID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'comercioId' is required")
		return
	}
	asociacionID := r.URL.Query().Get("asociacionId")

	beneficios, err := h.beneficioService.ListActivosPorComercio(ctx, comercioID, asociacionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error listing beneficios")
		return
	}

	respondWithJSON(w, http.StatusOK, beneficios)
}
