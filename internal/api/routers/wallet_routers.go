package routers

import "net/http"

func walletRouter(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("POST /wallets/transfer", h.Wallet.TransferHandler)

	mux.HandleFunc("GET /wallets/transfer/{reference}", h.Transactions.GetTransferHandler)
}
