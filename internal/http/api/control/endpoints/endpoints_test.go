package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
	"github.com/Nixie-Tech-LLC/boreas/internal/storage"
	"github.com/Nixie-Tech-LLC/boreas/internal/ventilation"
)

const (
	testSecret    = "test-secret"
	testIngestKey = "sensor-key"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStatus struct {
	state ventilation.State
	known bool
}

func (f fakeStatus) Action() string { return "ventilation" }

func (f fakeStatus) Status(context.Context) (ventilation.State, bool, error) {
	return f.state, f.known, nil
}

type testServer struct {
	router *gin.Engine
	store  db.Store
	token  string
}

func newTestServer(t *testing.T, status VentilationStatus) *testServer {
	t.Helper()
	store := db.NewTestStore(t)

	userID, err := store.CreateUser(context.Background(), "ops@example.com", "not-a-real-hash", nil)
	require.NoError(t, err)
	token, err := middleware.GenerateJWT(userID, testSecret)
	require.NoError(t, err)

	if status == nil {
		status = fakeStatus{}
	}

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, TemperatureIngestModule(store, testIngestKey))
	api.MountGroup(r, api.GroupConfig{Prefix: "/api", Auth: true, SecretKey: testSecret, Users: store},
		ProgramModule(store, schedule.Expander{}, schedule.Resolver{Location: time.UTC}),
		TemperatureModule(store, storage.NewLocalStorage(t.TempDir(), "/exports"), time.UTC),
		SensorGroupModule(store),
		VentilationModule(status, time.UTC),
	)
	return &testServer{router: r, store: store, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
}
