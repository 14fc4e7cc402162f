package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nprashanth1712/astroai-payment/internal/gateway"
	"github.com/nprashanth1712/astroai-payment/internal/journal"
	"github.com/nprashanth1712/astroai-payment/internal/ledger"
	"github.com/nprashanth1712/astroai-payment/internal/middleware"
	"github.com/nprashanth1712/astroai-payment/internal/signature"
	"github.com/nprashanth1712/astroai-payment/internal/store"
	"github.com/nprashanth1712/astroai-payment/internal/utils"
	"github.com/nprashanth1712/astroai-payment/internal/webhook"
)

const (
	testJWTSecret     = "jwt_test_secret"
	testPaySecret     = "rzp_test_secret"
	testWebhookSecret = "whsec_test"
)

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (gateway.Order, error) {
	args := m.Called(ctx, amountMinor, currency, receipt, notes)
	return args.Get(0).(gateway.Order), args.Error(1)
}

func (m *gatewayMock) FetchPayment(ctx context.Context, paymentID string) (gateway.Payment, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(gateway.Payment), args.Error(1)
}

func (m *gatewayMock) CreateRefund(ctx context.Context, paymentID string, amountMinor int64, receipt string, notes map[string]interface{}) (gateway.Refund, error) {
	args := m.Called(ctx, paymentID, amountMinor, receipt, notes)
	return args.Get(0).(gateway.Refund), args.Error(1)
}

type journalMock struct{ mock.Mock }

func (m *journalMock) Record(ctx context.Context, e journal.Event) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

// newTestRouter assembles the routes exactly as cmd/server does
func newTestRouter(gw gateway.Client, rec journal.Recorder) (*gin.Engine, *store.MemoryStore) {
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	verifier := signature.NewVerifier(testPaySecret, testWebhookSecret)
	svc := ledger.NewService(st, gw, verifier, "rzp_test_key")
	processor := webhook.NewProcessor(verifier, rec)

	r := gin.New()
	r.GET("/", HealthHandler(func(context.Context) error { return nil }))
	r.POST("/webhook/razorpay", WebhookHandler(processor))

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	apiGroup.POST("/create-order", CreateOrderHandler(svc))
	apiGroup.POST("/verify-payment", VerifyPaymentHandler(svc))
	apiGroup.POST("/payment", LegacyPaymentHandler(svc))
	apiGroup.GET("/payment/balance", BalanceHandler(svc))
	apiGroup.POST("/refund", RefundHandler(svc))

	appGroup := r.Group("/app/api")
	appGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	appGroup.POST("/promocode", PromocodeHandler())
	appGroup.POST("/refer", ReferralHandler())

	r.NoRoute(NotFoundHandler())
	return r, st
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, testJWTSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)
	w := doJSON(t, r, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, "OK", resp["status"])
	require.Equal(t, "Connected", resp["store"])
	require.NotEmpty(t, resp["timestamp"])
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)

	w := doJSON(t, r, http.MethodGet, "/api/payment/balance", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/payment/balance", nil, "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBalanceDefaults(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)

	w := doJSON(t, r, http.MethodGet, "/api/payment/balance", nil, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(0), resp["balance"])
	require.Empty(t, resp["transactions"])
}

func TestCreateOrderEndpoint(t *testing.T) {
	gw := new(gatewayMock)
	gw.On("CreateOrder", mock.Anything, int64(50000), "INR", mock.Anything, mock.Anything).
		Return(gateway.Order{ID: "order_1", AmountMinor: 50000, Currency: "INR"}, nil)

	r, _ := newTestRouter(gw, nil)
	w := doJSON(t, r, http.MethodPost, "/api/create-order",
		gin.H{"amount": 500, "questionCount": 10}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "order_1", resp["orderId"])
	require.Equal(t, float64(50000), resp["amount"])
	require.Equal(t, "INR", resp["currency"])
	require.Equal(t, "rzp_test_key", resp["key"])

	// Missing fields are rejected before the gateway sees them
	w = doJSON(t, r, http.MethodPost, "/api/create-order", gin.H{"amount": 500}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	captured := gateway.Payment{ID: "pay_1", OrderID: "order_1", AmountMinor: 50000, Currency: "INR", Status: "captured"}
	sig := signature.Sign([]byte("order_1|pay_1"), []byte(testPaySecret))

	t.Run("happy path credits the wallet", func(t *testing.T) {
		gw := new(gatewayMock)
		gw.On("FetchPayment", mock.Anything, "pay_1").Return(captured, nil)

		r, _ := newTestRouter(gw, nil)
		w := doJSON(t, r, http.MethodPost, "/api/verify-payment", gin.H{
			"razorpay_order_id":   "order_1",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  sig,
			"questionCount":       10,
		}, bearerToken(t, "u1"))
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode(t, w)
		require.Equal(t, true, resp["success"])
		require.Equal(t, float64(10), resp["balance"])
		require.NotNil(t, resp["transaction"])

		// The credit is visible on the balance endpoint
		w = doJSON(t, r, http.MethodGet, "/api/payment/balance", nil, bearerToken(t, "u1"))
		require.Equal(t, http.StatusOK, w.Code)
		resp = decode(t, w)
		require.Equal(t, float64(10), resp["balance"])
	})

	t.Run("tampered signature is a client error", func(t *testing.T) {
		gw := new(gatewayMock)
		r, st := newTestRouter(gw, nil)

		w := doJSON(t, r, http.MethodPost, "/api/verify-payment", gin.H{
			"razorpay_order_id":   "order_1",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  "deadbeef",
			"questionCount":       10,
		}, bearerToken(t, "u1"))
		require.Equal(t, http.StatusBadRequest, w.Code)

		wallet, err := st.Get(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, 0, wallet.Balance)
	})

	t.Run("non-captured payment is a client error", func(t *testing.T) {
		gw := new(gatewayMock)
		failed := captured
		failed.Status = "failed"
		gw.On("FetchPayment", mock.Anything, "pay_1").Return(failed, nil)

		r, _ := newTestRouter(gw, nil)
		w := doJSON(t, r, http.MethodPost, "/api/verify-payment", gin.H{
			"razorpay_order_id":   "order_1",
			"razorpay_payment_id": "pay_1",
			"razorpay_signature":  sig,
			"questionCount":       10,
		}, bearerToken(t, "u1"))
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.Equal(t, "Payment not captured", resp["error"])
	})

	t.Run("missing verification data", func(t *testing.T) {
		r, _ := newTestRouter(new(gatewayMock), nil)
		w := doJSON(t, r, http.MethodPost, "/api/verify-payment",
			gin.H{"razorpay_order_id": "order_1"}, bearerToken(t, "u1"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLegacyPaymentEndpoint(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)

	w := doJSON(t, r, http.MethodPost, "/api/payment",
		gin.H{"payment": 299, "questionCount": 3}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(3), resp["balance"])
}

func TestRefundEndpoint(t *testing.T) {
	gw := new(gatewayMock)
	gw.On("CreateRefund", mock.Anything, "pay_1", int64(20000), mock.Anything, mock.Anything).
		Return(gateway.Refund{ID: "rfnd_1", AmountMinor: 20000, Status: "processed"}, nil)

	r, _ := newTestRouter(gw, nil)
	w := doJSON(t, r, http.MethodPost, "/api/refund",
		gin.H{"paymentId": "pay_1", "amount": 200, "reason": "Duplicate charge"}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "rfnd_1", resp["refundId"])
	require.Equal(t, float64(200), resp["amount"])
	require.Equal(t, "processed", resp["status"])

	// Missing payment id
	w = doJSON(t, r, http.MethodPost, "/api/refund", gin.H{"amount": 200}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookEndpoint(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","status":"captured"}}}}`)

	t.Run("valid signature is acknowledged", func(t *testing.T) {
		rec := new(journalMock)
		rec.On("Record", mock.Anything, mock.Anything).Return(true, nil)

		r, _ := newTestRouter(new(gatewayMock), rec)
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", signature.Sign(body, []byte(testWebhookSecret)))
		req.Header.Set("X-Razorpay-Event-Id", "evt_1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.Equal(t, true, resp["success"])
		rec.AssertExpectations(t)
	})

	t.Run("wrong signature is rejected without dispatch", func(t *testing.T) {
		rec := new(journalMock)

		r, _ := newTestRouter(new(gatewayMock), rec)
		req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
		req.Header.Set("X-Razorpay-Signature", "00000000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		rec.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}

func TestPlaceholderEndpoints(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)

	w := doJSON(t, r, http.MethodPost, "/app/api/promocode",
		gin.H{"promocode": "WELCOME"}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.Equal(t, false, resp["success"])

	w = doJSON(t, r, http.MethodPost, "/app/api/refer",
		gin.H{"referralCode": "FRIEND"}, bearerToken(t, "u1"))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNotFound(t *testing.T) {
	r, _ := newTestRouter(new(gatewayMock), nil)

	w := doJSON(t, r, http.MethodGet, "/does-not-exist", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	require.Equal(t, "Route not found", resp["error"])
	require.Equal(t, "/does-not-exist", resp["path"])
}
