package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	userID string
	email  string
	err    error
}

func (f *fakeVerifier) Verify(token string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.userID, f.email, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		authHeader string
		verifier   *fakeVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifier:   &fakeVerifier{userID: "user-1", email: "alice@example.com"},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &fakeVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			verifier:   &fakeVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			verifier:   &fakeVerifier{userID: "user-1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			verifier:   &fakeVerifier{err: errors.New("token expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				userID, ok := UserIDFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, tc.verifier.userID, userID)
				email, ok := UserEmailFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, tc.verifier.email, email)
				w.WriteHeader(http.StatusOK)
			}

			handler := RequireAuth(tc.verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "/families/mine", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
		})
	}
}

func TestSetCaller_Roundtrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := SetCaller(req.Context(), "user-7", "carol@example.com")

	userID, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-7", userID)

	email, ok := UserEmailFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "carol@example.com", email)

	_, ok = UserIDFromContext(req.Context())
	assert.False(t, ok)
}
