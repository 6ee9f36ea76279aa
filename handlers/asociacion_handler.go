package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fidelyaAPI/internal/asociacion"
	"fidelyaAPI/services"
)

type AsociacionHandler struct {
	asociacionService *services.AsociacionService
}

func NewAsociacionHandler(asociacionService *services.AsociacionService) *AsociacionHandler {
	return &AsociacionHandler{
		asociacionService: asociacionService,
	}
}

func (h *AsociacionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req asociacion.CreateAsociacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		respondWithError(w, http.StatusBadRequest, "nombre is required")
		return
	}

	nueva, err := h.asociacionService.Create(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error creating asociación")
		return
	}

	respondWithJSON(w, http.StatusCreated, nueva)
}

func (h *AsociacionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.asociacionService.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Asociación not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error fetching asociación")
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AsociacionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	asociaciones, err := h.asociacionService.List(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error listing asociaciones")
		return
	}

	respondWithJSON(w, http.StatusOK, asociaciones)
}
