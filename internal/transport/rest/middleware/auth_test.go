package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskscreen/internal/service"
)

func newProtected(t *testing.T) (*service.AuthService, http.Handler, *string) {
	t.Helper()
	authSvc := service.NewAuthService("operator", "pass", "jwt-secret")
	mw := NewAuthMiddleware(authSvc)

	var seenOperator string
	handler := mw.RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOperator = GetOperatorID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return authSvc, handler, &seenOperator
}

func TestRequireOperatorAcceptsValidToken(t *testing.T) {
	authSvc, handler, seenOperator := newProtected(t)

	login, err := authSvc.Login("operator", "pass")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/respondents", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, login.OperatorID, *seenOperator)
}

func TestRequireOperatorRejectsMissingHeader(t *testing.T) {
	_, handler, _ := newProtected(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/respondents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperatorRejectsBadToken(t *testing.T) {
	_, handler, _ := newProtected(t)

	for _, header := range []string{"Bearer garbage", "Basic abc", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/respondents", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
