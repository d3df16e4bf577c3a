package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/auth/packets"
)

const secret = "test-secret"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := db.NewTestStore(t)

	router := gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api"}, AuthPublicModule(secret, store))
	api.MountGroup(router, api.GroupConfig{Prefix: "/api", Auth: true, SecretKey: secret, Users: store}, AuthSessionModule(secret, store))
	return router
}

func send(router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp packets.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "response should be valid JSON")
	require.NotEmpty(t, resp.Token, "token should not be empty")
	return resp.Token
}

func TestSignupAndLogin(t *testing.T) {
	router := newRouter(t)
	credentials := map[string]string{"email": "test@example.com", "password": "testpassword"}

	w := send(router, http.MethodPost, "/api/auth/signup", "", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tokenFrom(t, w)

	w = send(router, http.MethodPost, "/api/auth/signup", "", credentials)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(router, http.MethodPost, "/api/auth/login", "", credentials)
	require.Equal(t, http.StatusOK, w.Code)
	tokenFrom(t, w)
}

func TestLoginFailures(t *testing.T) {
	router := newRouter(t)
	w := send(router, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "test@example.com", "password": "testpassword"})
	require.Equal(t, http.StatusCreated, w.Code)

	cases := []struct {
		name    string
		payload map[string]string
		status  int
	}{
		{"wrong password", map[string]string{"email": "test@example.com", "password": "wrongpassword"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"email": "nobody@example.com", "password": "testpassword"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "test@example.com"}, http.StatusBadRequest},
		{"malformed email", map[string]string{"email": "not-an-email", "password": "testpassword"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := send(router, http.MethodPost, "/api/auth/login", "", tc.payload)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestCurrentProfile(t *testing.T) {
	router := newRouter(t)
	w := send(router, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "ops@example.com", "password": "testpassword"})
	require.Equal(t, http.StatusCreated, w.Code)
	token := tokenFrom(t, w)

	w = send(router, http.MethodGet, "/api/auth/current_profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(router, http.MethodGet, "/api/auth/current_profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile packets.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "ops@example.com", profile.Email)

	name := "Night Shift"
	w = send(router, http.MethodPut, "/api/auth/current_profile", token, map[string]any{"email": "night@example.com", "name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "night@example.com", profile.Email)
	require.NotNil(t, profile.Name)
	assert.Equal(t, name, *profile.Name)
}
