package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fidelyaAPI/internal/notification"
	"fidelyaAPI/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegistrarDispositivo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req notification.RegistrarDispositivoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SocioID == "" || req.Token == "" {
		respondWithError(w, http.StatusBadRequest, "socioId and token are required")
		return
	}

	token, err := h.notificationService.RegistrarDispositivo(ctx, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error registering device")
		return
	}

	respondWithJSON(w, http.StatusCreated, token)
}
