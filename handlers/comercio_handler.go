package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fidelyaAPI/internal/comercio"
	"fidelyaAPI/services"
)

type ComercioHandler struct {
	comercioService *services.ComercioService
}

func NewComercioHandler(comercioService *services.ComercioService) *ComercioHandler {
	return &ComercioHandler{
		comercioService: comercioService,
	}
}

func (h *ComercioHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req comercio.CreateComercioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Nombre == "" || req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "nombre and email are required")
		return
	}

	nuevo, err := h.comercioService.Create(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error creating comercio")
		return
	}

	respondWithJSON(w, http.StatusCreated, nuevo)
}

func (h *ComercioHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	com, err := h.comercioService.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Comercio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error fetching comercio")
		return
	}

	respondWithJSON(w, http.StatusOK, com)
}

func (h *ComercioHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req comercio.UpdateComercioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actualizado, err := h.comercioService.Update(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Comercio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error updating comercio")
		return
	}

	respondWithJSON(w, http.StatusOK, actualizado)
}

type vincularRequest struct {
	AsociacionID string `json:"asociacionId"`
}

func (h *ComercioHandler) VincularAsociacion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req vincularRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AsociacionID == "" {
		respondWithError(w, http.StatusBadRequest, "asociacionId is required")
		return
	}

	if err := h.comercioService.VincularAsociacion(ctx, mux.Vars(r)["id"], req.AsociacionID); err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Comercio not found")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Asociación vinculada"})
}

func (h *ComercioHandler) DesvincularAsociacion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req vincularRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AsociacionID == "" {
		respondWithError(w, http.StatusBadRequest, "asociacionId is required")
		return
	}

	if err := h.comercioService.DesvincularAsociacion(ctx, mux.Vars(r)["id"], req.AsociacionID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error unlinking asociación")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Asociación desvinculada"})
}

func (h *ComercioHandler) GenerarQR(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	qr, err := h.comercioService.GenerarQR(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNoEncontrado) {
			respondWithError(w, http.StatusNotFound, "Comercio not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Error generating QR")
		return
	}

	respondWithJSON(w, http.StatusOK, qr)
}
