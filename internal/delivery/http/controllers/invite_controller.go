package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"familyrelay/internal/delivery/http/helpers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInviteController(logger *slog.Logger, svc domain.InvitationService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// SendInviteRequest is the request body for POST /invites.
type SendInviteRequest struct {
	Email string `json:"email"`
}

func (r *SendInviteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(r.Email, "@") {
		errs = append(errs, "email is invalid")
	}
	return errs
}

// SendInviteSuccessResponse is the success response envelope for POST /invites.
type SendInviteSuccessResponse struct {
	Data  *domain.InviteReceipt `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SendInvite godoc
// @Summary Invite a user to the caller's family
// @Description Pushes an invite notification to the invitee's device, or falls back to an email invitation when the invitee has no device token. Membership is not changed until the invitee accepts.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.SendInviteRequest true "Invitee email"
// @Success 202 {object} controllers.SendInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found — invitee unknown"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway — delivery failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [post]
func (c *InviteController) SendInvite(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	callerEmail, _ := middleware.UserEmailFromContext(r.Context())

	var req SendInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	receipt, err := c.Service.SendInvite(r.Context(), callerID, callerEmail, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no user with that email")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrDeliveryFailed):
			helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusAccepted, receipt)
}

// AcceptInviteRequest is the request body for POST /invites/accept.
type AcceptInviteRequest struct {
	InviterEmail string `json:"inviter_email"`
}

func (r *AcceptInviteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.InviterEmail) == "" {
		errs = append(errs, "inviter_email is required")
	}
	return errs
}

// AcceptInviteSuccessResponse is the success response envelope for POST /invites/accept.
type AcceptInviteSuccessResponse struct {
	Data  *domain.AcceptReceipt `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// AcceptInvite godoc
// @Summary Accept an invitation to the inviter's family
// @Description Adds the caller to the family owned by the inviter and pushes a confirmation back to the inviter. When the confirmation cannot be delivered the caller is still a member; the receipt reports confirmed=false.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.AcceptInviteRequest true "Inviter email"
// @Success 200 {object} controllers.AcceptInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found — inviter unknown or owns no family"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict — inviter owns more than one family"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/accept [post]
func (c *InviteController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	callerEmail, _ := middleware.UserEmailFromContext(r.Context())

	var req AcceptInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	receipt, err := c.Service.AcceptInvite(r.Context(), callerID, callerEmail, req.InviterEmail)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no user with that email")
		case errors.Is(err, domain.ErrNoFamily):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "the inviter owns no family")
		case errors.Is(err, domain.ErrMultipleFamilies):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "the inviter owns more than one family")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, receipt)
}
