package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dompet_api/internal/api/handlers"
	"dompet_api/internal/services"
	"dompet_api/pkg/utils"
)

type Transferer interface {
	Transfer(ctx context.Context, in services.TransferInput) (*services.TransferResult, error)
}

// TransferTimeout bounds one transfer including its lock waits.
const TransferTimeout = 15 * time.Second

type Handler struct {
	svc     Transferer
	timeout time.Duration
}

func NewHandler(svc Transferer) *Handler {
	return &Handler{svc: svc, timeout: TransferTimeout}
}

type transferRequest struct {
	FromWalletID int         `json:"from_wallet_id"`
	ToWalletID   int         `json:"to_wallet_id"`
	Amount       json.Number `json:"amount"`
	Description  string      `json:"description"`
}

type transferResponse struct {
	Status       string      `json:"status"`
	Message      string      `json:"message"`
	Reference    string      `json:"reference"`
	FromWalletID int         `json:"from_wallet_id"`
	ToWalletID   int         `json:"to_wallet_id"`
	Amount       json.Number `json:"amount"`
}

// TransferHandler moves funds between two wallets of the authenticated user.
func (h *Handler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req transferRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.svc.Transfer(ctx, services.TransferInput{
		UserID:       userID,
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount.String(),
		Description:  req.Description,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, transferResponse{
		Status:       "success",
		Message:      "transfer successful",
		Reference:    result.Reference,
		FromWalletID: result.FromWalletID,
		ToWalletID:   result.ToWalletID,
		Amount:       json.Number(result.Amount.StringFixed(2)),
	})
}
