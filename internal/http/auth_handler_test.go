package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	got  service.LoginRequest
	resp *service.LoginResponse
	err  error
}

func (f *fakeAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestAuthLogin_Success(t *testing.T) {
	auth := &fakeAuthService{resp: &service.LoginResponse{
		AccessToken: "tok-1",
		UserID:      "p-1",
		Role:        "user",
	}}
	h := NewAuthHandler(auth, zap.NewNop())

	body := `{"user_id":"p-1","password":"changeme"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/api/v1/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Result[service.LoginResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ResultSuccess, resp.Code)
	assert.Equal(t, "tok-1", resp.Result.AccessToken)
	assert.Equal(t, "user", resp.Result.Role)
	// snake_case 请求体被正确解析
	assert.Equal(t, "p-1", auth.got.UserID)
	assert.Equal(t, "changeme", auth.got.Password)
}

func TestAuthLogin_Rejected(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{err: fmt.Errorf("invalid credentials")}, zap.NewNop())

	body := `{"user_id":"p-1","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/api/v1/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}
