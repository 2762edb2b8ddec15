package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"familyrelay/internal/delivery/http/helpers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

// DeviceController handles device token registration. It talks to the token
// registry directly; there is no business logic beyond last-write-wins.
type DeviceController struct {
	Logger *slog.Logger
	Tokens domain.DeviceTokenRepository
}

func NewDeviceController(logger *slog.Logger, tokens domain.DeviceTokenRepository) *DeviceController {
	return &DeviceController{
		Logger: logger,
		Tokens: tokens,
	}
}

// RegisterDeviceTokenRequest is the request body for PUT /devices/token.
type RegisterDeviceTokenRequest struct {
	Token string `json:"token"`
}

func (r *RegisterDeviceTokenRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Token) == "" {
		errs = append(errs, "token is required")
	}
	return errs
}

// RegisterDeviceToken godoc
// @Summary Register the caller's device token
// @Description Stores the push-delivery address for the caller's device. Last write wins.
// @Tags devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.RegisterDeviceTokenRequest true "Device token"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /devices/token [put]
func (c *DeviceController) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req RegisterDeviceTokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Tokens.Set(r.Context(), callerID, strings.TrimSpace(req.Token)); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}
