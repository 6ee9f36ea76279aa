package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fidelyaAPI/internal/socio"
	"fidelyaAPI/services"
)

type SocioHandler struct {
	socioService *services.SocioService
}

func NewSocioHandler(socioService *services.SocioService) *SocioHandler {
	return &SocioHandler{
		socioService: socioService,
	}
}

func (h *SocioHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req socio.CreateSocioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Nombre == "" || req.Email == "" || req.NumeroSocio == "" || req.AsociacionID == "" {
		respondWithError(w, http.StatusBadRequest, "nombre, email, numeroSocio and asociacionId are required")
		return
	}

	nuevo, err := h.socioService.Create(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, nuevo)
}

func (h *SocioHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	soc, err := h.socioService.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Socio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error fetching socio")
		return
	}

	respondWithJSON(w, http.StatusOK, soc)
}

func (h *SocioHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req socio.UpdateSocioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actualizado, err := h.socioService.Update(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Socio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error updating socio")
		return
	}

	respondWithJSON(w, http.StatusOK, actualizado)
}

func (h *SocioHandler) ListPorAsociacion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	asociacionID := r.URL.Query().Get("asociacionId")
	if asociacionID == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'asociacionId' is required")
		return
	}

	socios, err := h.socioService.ListPorAsociacion(ctx, asociacionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error listing socios")
		return
	}

	respondWithJSON(w, http.StatusOK, socios)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
