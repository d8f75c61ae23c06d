package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/loyaltyengine/internal/test"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.LoyaltyFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{},
		PurchaseFacadeStub: testhelpers.PurchaseFacadeStub{
			PurchasesFn: func(context.Context, int64) ([]model.Purchase, error) {
				points := int64(5)
				return []model.Purchase{{Number: "1", Status: model.PurchaseStatusProcessed, Points: &points, UploadedAt: time.Unix(0, 0)}}, nil
			},
		},
		RewardsFacadeStub: testhelpers.RewardsFacadeStub{},
	}
	engine := Setup(facade, logger)

	body, _ := json.Marshal(map[string]string{"login": "ann", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	authorized := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/user/purchases", http.StatusOK},
		{http.MethodGet, "/api/user/balance", http.StatusOK},
		{http.MethodGet, "/api/user/tier", http.StatusOK},
		{http.MethodGet, "/api/user/transactions", http.StatusOK},
		{http.MethodGet, "/api/user/redemptions", http.StatusOK},
		{http.MethodPost, "/api/user/rewards/1/redeem", http.StatusOK},
	}
	for _, tc := range authorized {
		req = httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer token")
		resp = httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected status %d, got %d", tc.method, tc.path, tc.status, resp.Code)
		}

		req = httptest.NewRequest(tc.method, tc.path, nil)
		resp = httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", tc.method, tc.path, resp.Code)
		}
	}

	for _, path := range []string{"/api/rewards", "/api/discount?points=10"} {
		resp = httptest.NewRecorder()
		engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected public route to return 200, got %d", path, resp.Code)
		}
	}
}

var _ handlers.LoyaltyFacade = (*testhelpers.LoyaltyFacadeStub)(nil)
