package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"familyrelay/internal/delivery/http/controllers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	familyController *controllers.FamilyController,
	inviteController *controllers.InviteController,
	locationController *controllers.LocationController,
	deviceController *controllers.DeviceController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Families
	mux.HandleFunc("POST /families", auth(familyController.CreateFamily))
	mux.HandleFunc("GET /families/mine", auth(familyController.GetMyFamily))
	mux.HandleFunc("DELETE /families/{familyID}/members/{userID}", auth(familyController.RemoveMember))

	// Invitations
	mux.HandleFunc("POST /invites", auth(inviteController.SendInvite))
	mux.HandleFunc("POST /invites/accept", auth(inviteController.AcceptInvite))

	// Location broadcast
	mux.HandleFunc("POST /locations", auth(locationController.BroadcastLocation))

	// Devices
	mux.HandleFunc("PUT /devices/token", auth(deviceController.RegisterDeviceToken))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
