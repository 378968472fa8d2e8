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

	"github.com/vkotelnikov/codemart/internal/domain/model"
	"github.com/vkotelnikov/codemart/internal/server/http/handlers"
	testhelpers "github.com/vkotelnikov/codemart/internal/test/facade"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := testhelpers.StoreFacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(context.Context, int64) ([]model.Order, error) {
				return []model.Order{{ID: "o1", PaymentStatus: model.PaymentStatusPending, ReservedAt: time.Unix(0, 0)}}, nil
			},
		},
	}
	engine := Setup(facade, "admin-key", logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}
}

func TestSetupAuthGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(testhelpers.StoreFacadeStub{}, "admin-key", logger)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestSetupWebhookIsPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(testhelpers.StoreFacadeStub{}, "admin-key", logger)

	body, _ := json.Marshal(map[string]string{"order_id": "o1", "transaction_status": "settlement"})
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected webhook reachable without auth, got %d", resp.Code)
	}
}

func TestSetupAdminGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(testhelpers.StoreFacadeStub{}, "admin-key", logger)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/7/stock", bytes.NewReader([]byte("CODE")))
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin key, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/products/7/stock", bytes.NewReader([]byte("CODE")))
	req.Header.Set("X-Admin-Key", "admin-key")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with admin key, got %d", resp.Code)
	}
}

var _ handlers.StoreFacade = (*testhelpers.StoreFacadeStub)(nil)
