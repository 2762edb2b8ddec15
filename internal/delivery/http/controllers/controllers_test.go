package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/domain"
)

// fakeFamilyService returns canned results per method.
type fakeFamilyService struct {
	family  *domain.Family
	created bool
	err     error

	removeErr    error
	removeCalled bool
}

func (f *fakeFamilyService) CreateFamily(ctx context.Context, ownerID string) (*domain.Family, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.family, f.created, nil
}

func (f *fakeFamilyService) GetFamily(ctx context.Context, familyID string) (*domain.Family, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.family, nil
}

func (f *fakeFamilyService) FindFamilyByCreator(ctx context.Context, ownerID string) (*domain.Family, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.family, nil
}

func (f *fakeFamilyService) FindFamilyByMember(ctx context.Context, userID string) (*domain.Family, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.family, nil
}

func (f *fakeFamilyService) AddMember(ctx context.Context, familyID, userID string) error {
	return f.err
}

func (f *fakeFamilyService) RemoveMember(ctx context.Context, familyID, userID string) error {
	f.removeCalled = true
	return f.removeErr
}

type fakeInvitationService struct {
	inviteReceipt *domain.InviteReceipt
	acceptReceipt *domain.AcceptReceipt
	err           error
}

func (f *fakeInvitationService) SendInvite(ctx context.Context, callerID, callerEmail, inviteeEmail string) (*domain.InviteReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.inviteReceipt, nil
}

func (f *fakeInvitationService) AcceptInvite(ctx context.Context, callerID, callerEmail, inviterEmail string) (*domain.AcceptReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.acceptReceipt, nil
}

type fakeBroadcastService struct {
	result *domain.BroadcastResult
	err    error

	gotFamilyID string
}

func (f *fakeBroadcastService) BroadcastToFamily(ctx context.Context, callerID, familyID string, n *domain.Notification) (*domain.BroadcastResult, error) {
	f.gotFamilyID = familyID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request with the caller identity already set in the
// context, as the auth middleware would do.
func authedRequest(method, target string, body io.Reader, userID, email string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.SetCaller(req.Context(), userID, email))
}

// decodeEnvelope unmarshals the response body into the standard envelope with
// data decoded into out (which may be nil to skip data decoding).
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) (errCode string) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if envelope.Error != nil {
		return envelope.Error.Code
	}
	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return ""
}
