package transactions

import (
	"context"
	"net/http"

	"dompet_api/internal/api/handlers"
	"dompet_api/internal/models"
	"dompet_api/pkg/utils"
)

type TransferReader interface {
	GetTransfer(ctx context.Context, userID int, reference string) ([]models.Transaction, error)
}

type Handler struct {
	svc TransferReader
}

func NewHandler(svc TransferReader) *Handler {
	return &Handler{svc: svc}
}

// GetTransferHandler returns the ledger legs recorded under one transfer reference.
func (h *Handler) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	legs, err := h.svc.GetTransfer(r.Context(), userID, r.PathValue("reference"))
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	response := struct {
		Status string               `json:"status"`
		Count  int                  `json:"count"`
		Data   []models.Transaction `json:"data"`
	}{
		Status: "success",
		Count:  len(legs),
		Data:   legs,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
