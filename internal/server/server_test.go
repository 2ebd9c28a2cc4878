package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodspend/internal/aggregator"
	"github.com/chrisdamba/foodspend/internal/logging"
	"github.com/chrisdamba/foodspend/internal/models"
	"github.com/chrisdamba/foodspend/internal/swiggy"
)

type fakeUpstream struct {
	deviceID string
	token    string
	result   *swiggy.FetchResult
	err      error

	gotToken string
}

func (f *fakeUpstream) SendOTP(ctx context.Context, mobile string) (string, error) {
	if err := swiggy.ValidateMobile(mobile); err != nil {
		return "", err
	}
	return f.deviceID, f.err
}

func (f *fakeUpstream) VerifyOTP(ctx context.Context, mobile, otp, deviceID string) (string, error) {
	return f.token, f.err
}

func (f *fakeUpstream) FetchOrders(ctx context.Context, token string, onPage swiggy.PageFunc) (*swiggy.FetchResult, error) {
	f.gotToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "2", OrderTime: "2024-01-06 23:30:00", OrderTotal: models.NewAmount(150), RestaurantName: "Pizza Place"},
		{ID: "1", OrderTime: "2024-01-05 10:00:00", OrderTotal: models.NewAmount(200), RestaurantName: "Pizza Place"},
	}
}

func do(t *testing.T, up Upstream, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	s := New(up, aggregator.New(), logging.Discard())
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	rec := do(t, &fakeUpstream{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSendOTP(t *testing.T) {
	rec := do(t, &fakeUpstream{deviceID: "dev-1"}, http.MethodPost, "/api/auth/send-otp", `{"mobile":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sendOTPResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "dev-1", resp.DeviceID)
}

func TestVerifyOTP(t *testing.T) {
	rec := do(t, &fakeUpstream{token: "_session_tid=abc"}, http.MethodPost, "/api/auth/verify-otp",
		`{"mobile":"9876543210","otp":"123456","deviceId":"dev-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp verifyOTPResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "_session_tid=abc", resp.Token)
}

func TestOrders(t *testing.T) {
	up := &fakeUpstream{result: &swiggy.FetchResult{Orders: sampleOrders(), Pages: 1, Partial: true}}
	rec := do(t, up, http.MethodPost, "/api/orders", `{"token":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", up.gotToken)

	var resp ordersResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalOrders)
	assert.True(t, resp.Partial)
	assert.Equal(t, "2", resp.Orders[0].ID.String())
}

func TestOrders_Empty(t *testing.T) {
	up := &fakeUpstream{result: &swiggy.FetchResult{Orders: []models.Order{}}}
	rec := do(t, up, http.MethodPost, "/api/orders", `{"token":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)
}

func TestDashboard_FromOrders(t *testing.T) {
	body, err := json.Marshal(map[string]any{"orders": sampleOrders()})
	require.NoError(t, err)

	rec := do(t, &fakeUpstream{}, http.MethodPost, "/api/dashboard", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var d models.DashboardData
	decodeBody(t, rec, &d)
	assert.Equal(t, 2, d.Summary.TotalOrders)
	assert.Equal(t, int64(350), d.Summary.TotalSpent)
	assert.Equal(t, 1, d.FunStats.LateNightOrders)
}

func TestDashboard_EmptyOrders(t *testing.T) {
	rec := do(t, &fakeUpstream{}, http.MethodPost, "/api/dashboard", `{"orders":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var d models.DashboardData
	decodeBody(t, rec, &d)
	assert.Zero(t, d.Summary.TotalOrders)
	assert.Equal(t, models.NotAvailable, d.FunStats.FavoriteDay)
}

func TestDashboard_FromToken(t *testing.T) {
	up := &fakeUpstream{result: &swiggy.FetchResult{Orders: sampleOrders()}}
	rec := do(t, up, http.MethodPost, "/api/dashboard", `{"token":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", up.gotToken)

	var d models.DashboardData
	decodeBody(t, rec, &d)
	assert.Equal(t, 2, d.Summary.TotalOrders)
	assert.Equal(t, "Pizza Place", d.FunStats.FavoriteRestaurant.Name)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		path   string
		body   string
		status int
		code   string
	}{
		{"blocked", &swiggy.UpstreamError{Kind: swiggy.ErrBlocked}, "/api/orders", `{"token":"t"}`, http.StatusForbidden, "WAF_BLOCKED"},
		{"unauthorized", &swiggy.UpstreamError{Kind: swiggy.ErrUnauthorized, Status: 401}, "/api/orders", `{"token":"t"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"malformed", &swiggy.UpstreamError{Kind: swiggy.ErrMalformed}, "/api/dashboard", `{"token":"t"}`, http.StatusBadRequest, "BAD_RESPONSE"},
		{"rejected", &swiggy.UpstreamError{Kind: swiggy.ErrRejected}, "/api/auth/verify-otp", `{"mobile":"9876543210","otp":"1","deviceId":"d"}`, http.StatusBadRequest, "API_ERROR"},
		{"network", &swiggy.UpstreamError{Kind: swiggy.ErrNetwork}, "/api/orders", `{"token":"t"}`, http.StatusBadGateway, "NETWORK_ERROR"},
		{"unclassified", context.DeadlineExceeded, "/api/orders", `{"token":"t"}`, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeUpstream{err: tt.err}, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/api/orders", `{"token":`},
		{"invalid mobile", "/api/auth/send-otp", `{"mobile":"12345"}`},
		{"dashboard without input", "/api/dashboard", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeUpstream{}, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, &fakeUpstream{}, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
