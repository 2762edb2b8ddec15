package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"familyrelay/internal/delivery/http/helpers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type FamilyController struct {
	Logger  *slog.Logger
	Service domain.FamilyService
}

func NewFamilyController(logger *slog.Logger, svc domain.FamilyService) *FamilyController {
	return &FamilyController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateFamilySuccessResponse is the success response envelope for POST /families (200 or 201).
type CreateFamilySuccessResponse struct {
	Data  *domain.Family    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateFamily godoc
// @Summary Create a family owned by the caller
// @Description Creates a family with the authenticated user as creator and sole member. Idempotent: returns 201 when a new family was created, 200 with the existing family when the caller already owns one.
// @Tags family
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CreateFamilySuccessResponse "Caller already owns a family"
// @Success 201 {object} controllers.CreateFamilySuccessResponse "New family created"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families [post]
func (c *FamilyController) CreateFamily(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	family, created, err := c.Service.CreateFamily(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, family)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, family)
}

// GetMyFamily godoc
// @Summary Get the family the caller belongs to
// @Tags family
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CreateFamilySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found — caller belongs to no family"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict — caller belongs to more than one family"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/mine [get]
func (c *FamilyController) GetMyFamily(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	family, err := c.Service.FindFamilyByMember(r.Context(), userID)
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
	helpers.WriteJSONSuccess(w, http.StatusOK, family)
}

// RemoveMember godoc
// @Summary Remove a member from a family
// @Description The family creator may remove any member; a member may remove themselves (leave). The creator cannot be removed. Removing a non-member is a no-op.
// @Tags family
// @Produce json
// @Security BearerAuth
// @Param familyID path string true "Family ID (UUID)"
// @Param userID path string true "User ID to remove"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /families/{familyID}/members/{userID} [delete]
func (c *FamilyController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("familyID")
	if !uuidRegex.MatchString(familyID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid familyID")
		return
	}
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}

	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	family, err := c.Service.GetFamily(r.Context(), familyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "family not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if callerID != family.CreatorID && callerID != userID {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the creator may remove other members")
		return
	}
	if userID == family.CreatorID {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "the family creator cannot be removed")
		return
	}

	if err := c.Service.RemoveMember(r.Context(), familyID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "family not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}
