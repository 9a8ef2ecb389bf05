package routers

import (
	"net/http"

	"dompet_api/internal/api/handlers"
	"dompet_api/internal/api/handlers/transactions"
	"dompet_api/internal/api/handlers/wallet"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Wallet       *wallet.Handler
	Transactions *transactions.Handler
	Store        handlers.Pinger
}

// PublicPaths are served without authentication.
var PublicPaths = []string{"/health", "/metrics"}

func MainRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	walletRouter(mux, h)

	mux.HandleFunc("GET /health", handlers.HealthHandler(h.Store))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
