package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dompet_api/internal/services"
	"dompet_api/pkg/utils"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// WriteServiceError maps a service error to its HTTP status. Internal
// details are logged, never returned to the client.
func WriteServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		fundsErr      *services.InsufficientFundsError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.WriteFieldError(w, validationErr.Field, validationErr.Message, http.StatusBadRequest)
	case errors.As(err, &fundsErr):
		utils.WriteError(w, fundsErr.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		utils.WriteError(w, notFoundErr.Error(), http.StatusNotFound)
	default:
		utils.Logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("request failed")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// Pinger is implemented by stores that can check their backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				utils.Logger.WithError(err).Warn("health check failed")
				utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
