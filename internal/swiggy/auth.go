package swiggy

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/chrisdamba/foodspend/internal/models"
)

const (
	sendOTPPath   = "/dapi/auth/sms-otp"
	verifyOTPPath = "/dapi/auth/otp-verify"
)

// mobilePattern matches a 10-digit Indian mobile number.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

type otpRequest struct {
	Mobile   string `json:"mobile"`
	OTP      string `json:"otp,omitempty"`
	DeviceID string `json:"_device_id"`
}

func ValidateMobile(mobile string) error {
	if !mobilePattern.MatchString(mobile) {
		return newError(ErrInvalidInput, 0, "please enter a valid 10-digit Indian mobile number")
	}
	return nil
}

func decodeAuth(r *response) (*models.AuthResponse, error) {
	var data models.AuthResponse
	if err := json.Unmarshal(r.body, &data); err != nil {
		return nil, &UpstreamError{Kind: ErrMalformed, Status: r.status, Err: err}
	}
	return &data, nil
}

// SendOTP asks the platform to text a one-time password to mobile. It returns
// the device id that must accompany the verification.
func (c *Client) SendOTP(ctx context.Context, mobile string) (string, error) {
	if err := ValidateMobile(mobile); err != nil {
		return "", err
	}

	deviceID := uuid.NewString()
	resp, err := c.do(ctx, http.MethodPost, sendOTPPath, otpRequest{Mobile: mobile, DeviceID: deviceID}, "")
	if err != nil {
		return "", err
	}
	if resp.blocked() {
		return "", newError(ErrBlocked, resp.status, "use the session token method instead")
	}
	if resp.status < 200 || resp.status >= 300 {
		return "", newError(ErrRejected, resp.status, "failed to send OTP")
	}

	data, err := decodeAuth(resp)
	if err != nil {
		return "", err
	}
	if data.StatusCode != 0 {
		return "", newError(ErrRejected, resp.status, "%s", messageOr(data.StatusMessage, "failed to send OTP"))
	}

	c.logger.WithField("device_id", deviceID).Info("OTP sent")
	return deviceID, nil
}

// VerifyOTP completes the login and returns the session token: every cookie
// set by the platform, as name=value pairs joined by "; ".
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp, deviceID string) (string, error) {
	if mobile == "" || otp == "" || deviceID == "" {
		return "", newError(ErrInvalidInput, 0, "mobile, OTP and device id are required")
	}

	resp, err := c.do(ctx, http.MethodPost, verifyOTPPath, otpRequest{Mobile: mobile, OTP: otp, DeviceID: deviceID}, "")
	if err != nil {
		return "", err
	}
	if resp.blocked() {
		return "", newError(ErrBlocked, resp.status, "OTP verification was challenged")
	}

	data, err := decodeAuth(resp)
	if err != nil {
		return "", err
	}
	if data.StatusCode != 0 {
		return "", newError(ErrRejected, resp.status, "%s", messageOr(data.StatusMessage, "invalid OTP"))
	}

	var pairs []string
	for _, ck := range resp.raw.Cookies() {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	if len(pairs) == 0 {
		return "", newError(ErrMalformed, resp.status, "login succeeded but no session token was received")
	}

	c.logger.WithField("cookies", len(pairs)).Info("OTP verified")
	return strings.Join(pairs, "; "), nil
}

func messageOr(msg, fallback string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return fallback
}
