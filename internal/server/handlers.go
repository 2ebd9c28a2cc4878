package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/foodspend/internal/models"
	"github.com/chrisdamba/foodspend/internal/swiggy"
)

const maxRequestBytes = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type sendOTPRequest struct {
	Mobile string `json:"mobile"`
}

type sendOTPResponse struct {
	Success  bool   `json:"success"`
	DeviceID string `json:"deviceId"`
	Message  string `json:"message"`
}

type verifyOTPRequest struct {
	Mobile   string `json:"mobile"`
	OTP      string `json:"otp"`
	DeviceID string `json:"deviceId"`
}

type verifyOTPResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type ordersRequest struct {
	Token string `json:"token"`
}

type ordersResponse struct {
	Success     bool           `json:"success"`
	Orders      []models.Order `json:"orders"`
	TotalOrders int            `json:"totalOrders"`
	Partial     bool           `json:"partial,omitempty"`
	Truncated   bool           `json:"truncated,omitempty"`
}

// dashboardRequest carries either a session token or the orders themselves.
type dashboardRequest struct {
	Token  string          `json:"token"`
	Orders *[]models.Order `json:"orders"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a classified failure to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, swiggy.ErrBlocked):
		return http.StatusForbidden, "WAF_BLOCKED"
	case errors.Is(err, swiggy.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, swiggy.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, swiggy.ErrMalformed):
		return http.StatusBadRequest, "BAD_RESPONSE"
	case errors.Is(err, swiggy.ErrRejected):
		return http.StatusBadRequest, "API_ERROR"
	case errors.Is(err, swiggy.ErrNetwork):
		return http.StatusBadGateway, "NETWORK_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	entry := s.logger.WithError(err).WithFields(logrus.Fields{"path": r.URL.Path, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &swiggy.UpstreamError{Kind: swiggy.ErrInvalidInput, Message: "invalid request body", Err: err}
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	deviceID, err := s.upstream.SendOTP(r.Context(), strings.TrimSpace(req.Mobile))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendOTPResponse{Success: true, DeviceID: deviceID, Message: "OTP sent successfully"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.upstream.VerifyOTP(r.Context(), strings.TrimSpace(req.Mobile), strings.TrimSpace(req.OTP), req.DeviceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOTPResponse{Success: true, Token: token})
}

func (s *Server) fetch(r *http.Request, token string) (*swiggy.FetchResult, error) {
	res, err := s.upstream.FetchOrders(r.Context(), token, nil)
	if err != nil {
		return nil, err
	}
	if res.Partial {
		s.logger.WithError(res.StopReason).WithField("orders", len(res.Orders)).Warn("serving partial order history")
	}
	return res, nil
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	var req ordersRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.fetch(r, req.Token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{
		Success:     true,
		Orders:      res.Orders,
		TotalOrders: len(res.Orders),
		Partial:     res.Partial,
		Truncated:   res.Truncated,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var orders []models.Order
	switch {
	case req.Orders != nil:
		orders = *req.Orders
	case strings.TrimSpace(req.Token) != "":
		res, err := s.fetch(r, req.Token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		orders = res.Orders
	default:
		s.writeError(w, r, &swiggy.UpstreamError{Kind: swiggy.ErrInvalidInput, Message: "a session token or a list of orders is required"})
		return
	}

	writeJSON(w, http.StatusOK, s.aggregator.Process(orders))
}
