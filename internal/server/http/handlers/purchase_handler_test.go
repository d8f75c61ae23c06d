package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/loyaltyengine/internal/domain/errors"
	"github.com/polkiloo/loyaltyengine/internal/domain/model"
	"github.com/polkiloo/loyaltyengine/internal/server/http/dto"
	"github.com/polkiloo/loyaltyengine/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/loyaltyengine/internal/test"
)

func asCustomer(id int64) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.CustomerIDContextKey, id) }
}

func TestPurchaseHandlerUpload(t *testing.T) {
	var gotCustomer int64
	var gotNumber string
	facade := testhelpers.PurchaseFacadeStub{UploadFn: func(_ context.Context, customerID int64, number string) (*model.Purchase, bool, error) {
		gotCustomer, gotNumber = customerID, number
		return &model.Purchase{Number: number}, true, nil
	}}
	resp := performRequest(t, http.MethodPost, "/purchases", NewPurchaseHandler(facade).Upload, asCustomer(7), []byte(" 79927398713\n"), nil)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	if gotCustomer != 7 || gotNumber != "79927398713" {
		t.Fatalf("unexpected facade call: %d %q", gotCustomer, gotNumber)
	}
}

func TestPurchaseHandlerUploadResults(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		upload func(context.Context, int64, string) (*model.Purchase, bool, error)
		status int
	}{
		{name: "empty body", body: []byte("  "), status: http.StatusBadRequest},
		{name: "already uploaded by customer", body: []byte("1"), upload: func(context.Context, int64, string) (*model.Purchase, bool, error) {
			return &model.Purchase{Number: "1"}, false, nil
		}, status: http.StatusOK},
		{name: "invalid number", body: []byte("1"), upload: func(context.Context, int64, string) (*model.Purchase, bool, error) {
			return nil, false, domainErrors.ErrInvalidPurchaseNumber
		}, status: http.StatusUnprocessableEntity},
		{name: "owned by another customer", body: []byte("1"), upload: func(context.Context, int64, string) (*model.Purchase, bool, error) {
			return nil, false, domainErrors.ErrAlreadyExists
		}, status: http.StatusConflict},
		{name: "internal", body: []byte("1"), upload: func(context.Context, int64, string) (*model.Purchase, bool, error) {
			return nil, false, errors.New("boom")
		}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.PurchaseFacadeStub{UploadFn: tt.upload}
			resp := performRequest(t, http.MethodPost, "/purchases", NewPurchaseHandler(facade).Upload, asCustomer(1), tt.body, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestPurchaseHandlerList(t *testing.T) {
	points := int64(12)
	uploaded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	facade := testhelpers.PurchaseFacadeStub{PurchasesFn: func(context.Context, int64) ([]model.Purchase, error) {
		return []model.Purchase{{Number: "1", Status: model.PurchaseStatusProcessed, Points: &points, UploadedAt: uploaded}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/purchases", NewPurchaseHandler(facade).List, asCustomer(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body []dto.PurchaseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 1 || body[0].Status != "PROCESSED" || *body[0].Points != 12 || !body[0].UploadedAt.Equal(uploaded) {
		t.Fatalf("unexpected body %+v", body)
	}

	empty := testhelpers.PurchaseFacadeStub{PurchasesFn: func(context.Context, int64) ([]model.Purchase, error) { return nil, nil }}
	resp = performRequest(t, http.MethodGet, "/purchases", NewPurchaseHandler(empty).List, asCustomer(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}

	failing := testhelpers.PurchaseFacadeStub{PurchasesFn: func(context.Context, int64) ([]model.Purchase, error) { return nil, errors.New("boom") }}
	resp = performRequest(t, http.MethodGet, "/purchases", NewPurchaseHandler(failing).List, asCustomer(1), nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
}
