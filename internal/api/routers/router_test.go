package routers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dompet_api/internal/api/handlers/transactions"
	"dompet_api/internal/api/handlers/wallet"
	mw "dompet_api/internal/api/middlewares"
	"dompet_api/internal/models"
	"dompet_api/internal/repositories/memstore"
	"dompet_api/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

const secret = "router-secret"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memstore.New()
	store.PutWallet(models.Wallet{ID: 1, UserID: 7, Type: models.WalletCash, Balance: decimal.NewFromInt(100)})
	store.PutWallet(models.Wallet{ID: 2, UserID: 7, Type: models.WalletBank, Balance: decimal.Zero})

	svc := services.NewTransferService(store, store, services.TransferConfig{})
	router := MainRouter(Handlers{
		Wallet:       wallet.NewHandler(svc),
		Transactions: transactions.NewHandler(svc),
		Store:        store,
	})
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware(secret), PublicPaths...)

	srv := httptest.NewServer(jwtMiddleware(mw.SecurityHeaders(router)))
	t.Cleanup(srv.Close)
	return srv
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": 7,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func do(t *testing.T, method, url, auth, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestMainRouter(t *testing.T) {
	srv := newServer(t)
	auth := bearer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		auth       string
		body       string
		wantStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"transfer requires token", http.MethodPost, "/wallets/transfer", "", `{}`, http.StatusUnauthorized},
		{"transfer", http.MethodPost, "/wallets/transfer", auth, `{"from_wallet_id":1,"to_wallet_id":2,"amount":40}`, http.StatusOK},
		{"transfer wrong method", http.MethodGet, "/wallets/transfer", auth, "", http.StatusMethodNotAllowed},
		{"lookup unknown reference", http.MethodGet, "/wallets/transfer/TRF404", auth, "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.auth, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
