package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"familyrelay/internal/delivery/http/helpers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

type LocationController struct {
	Logger        *slog.Logger
	FamilyService domain.FamilyService
	Broadcast     domain.BroadcastService
}

func NewLocationController(logger *slog.Logger, familySvc domain.FamilyService, broadcast domain.BroadcastService) *LocationController {
	return &LocationController{
		Logger:        logger,
		FamilyService: familySvc,
		Broadcast:     broadcast,
	}
}

// BroadcastLocationRequest is the request body for POST /locations.
type BroadcastLocationRequest struct {
	// Payload is the opaque location payload relayed to every other member.
	Payload json.RawMessage `json:"payload"`
}

func (r *BroadcastLocationRequest) Validate() []string {
	var errs []string
	if len(r.Payload) == 0 {
		errs = append(errs, "payload is required")
	}
	return errs
}

// BroadcastLocationSuccessResponse is the success response envelope for POST /locations.
type BroadcastLocationSuccessResponse struct {
	Data  *domain.BroadcastResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// BroadcastLocation godoc
// @Summary Broadcast a location update to the caller's family
// @Description Dispatches the location payload to every other family member concurrently and returns the aggregate delivery result with per-recipient outcomes.
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.BroadcastLocationRequest true "Location payload"
// @Success 200 {object} controllers.BroadcastLocationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found — caller belongs to no family"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict — caller belongs to more than one family"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations [post]
func (c *LocationController) BroadcastLocation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req BroadcastLocationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	family, err := c.FamilyService.FindFamilyByMember(r.Context(), callerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFamily):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "you are not a member of any family")
		case errors.Is(err, domain.ErrMultipleFamilies):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "you are a member of more than one family")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	notification := domain.NewLocationNotification(callerID, req.Payload)
	result, err := c.Broadcast.BroadcastToFamily(r.Context(), callerID, family.ID, notification)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "family not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
