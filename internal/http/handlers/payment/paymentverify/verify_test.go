package paymentverify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/http/handlers/payment/paymentverify"
	paymentservice "github.com/momconnect/backend/internal/services/payment"
)

type mockService struct {
	VerifyFunc func(ctx context.Context, orderID, paymentID, signature string) (bool, error)
}

func (m *mockService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
	return m.VerifyFunc(ctx, orderID, paymentID, signature)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestVerifyHandler(t *testing.T) {
	t.Run("valid signature", func(t *testing.T) {
		body, _ := json.Marshal(paymentverify.Request{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "signature",
		})

		service := &mockService{
			VerifyFunc: func(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
				require.Equal(t, "order_1", orderID)
				return true, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		paymentverify.New(makeLogger(), service).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("invalid signature returns 400 without detail", func(t *testing.T) {
		body, _ := json.Marshal(paymentverify.Request{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "bad-signature",
		})

		service := &mockService{
			VerifyFunc: func(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
				return false, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		paymentverify.New(makeLogger(), service).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
		// ответ не раскрывает, какая именно часть проверки не сошлась
		assert.NotContains(t, w.Body.String(), "order")
		assert.NotContains(t, w.Body.String(), "hmac")
	})

	t.Run("gateway unavailable returns 503", func(t *testing.T) {
		body, _ := json.Marshal(paymentverify.Request{
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "signature",
		})

		service := &mockService{
			VerifyFunc: func(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
				return false, paymentservice.ErrGatewayUnavailable
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		paymentverify.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(paymentverify.Request{OrderID: "order_1"})

		service := &mockService{
			VerifyFunc: func(ctx context.Context, orderID, paymentID, signature string) (bool, error) {
				t.Fatal("VerifyPayment should not be called")
				return false, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", bytes.NewReader(body))
		w := httptest.NewRecorder()

		paymentverify.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
