package endpoints

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
)

func ingest(t *testing.T, s *testServer, sensor string, value int, ts string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/temperatures",
		map[string]any{"sensor_name": sensor, "value": value, "timestamp": ts},
		middleware.IngestKeyHeader, testIngestKey)
	requireStatus(t, w, http.StatusCreated)
}

func TestIngestRequiresKey(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]any{"sensor_name": "salon", "value": 215}

	w := s.do(t, http.MethodPost, "/api/temperatures", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/temperatures", body, middleware.IngestKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/temperatures", map[string]any{"sensor_name": "salon"}, middleware.IngestKeyHeader, testIngestKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/temperatures", body, middleware.IngestKeyHeader, testIngestKey)
	requireStatus(t, w, http.StatusCreated)
	saved := decode[packets.TemperatureResponse](t, w)
	assert.Equal(t, "salon", saved.SensorName)
	assert.InDelta(t, 21.5, saved.Celsius, 0.0001)
}

func TestListTemperaturesInRange(t *testing.T) {
	s := newTestServer(t, nil)
	ingest(t, s, "salon", 190, "2024-03-01T08:00:00Z")
	ingest(t, s, "salon", 205, "2024-03-02T08:00:00Z")
	ingest(t, s, "cave", 120, "2024-03-03T08:00:00Z")

	w := s.do(t, http.MethodGet, "/api/temperatures?from=2024-03-02&to=2024-03-03T08:00:00Z", nil)
	requireStatus(t, w, http.StatusOK)
	readings := decode[[]packets.TemperatureResponse](t, w)
	require.Len(t, readings, 1)
	assert.Equal(t, 205, readings[0].Value)
	assert.Equal(t, "2024-03-02T08:00:00Z", readings[0].Timestamp)

	w = s.do(t, http.MethodGet, "/api/temperatures", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]packets.TemperatureResponse](t, w), 3)

	w = s.do(t, http.MethodGet, "/api/temperatures?from=2024-03-03&to=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/temperatures?from=march", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportTemperatures(t *testing.T) {
	s := newTestServer(t, nil)
	ingest(t, s, "salon", 205, "2024-03-02T09:15:00Z")
	ingest(t, s, "salon", 190, "2024-03-01T08:00:00Z")

	w := s.do(t, http.MethodGet, "/api/temperatures/export?format=csv", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "temperatures_debut_fin.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date;Heure;Sonde;Temperature", strings.TrimSpace(lines[0]))
	assert.Equal(t, "01/03/2024;08:00;salon;19.0", strings.TrimSpace(lines[1]))
	assert.Equal(t, "02/03/2024;09:15;salon;20.5", strings.TrimSpace(lines[2]))

	w = s.do(t, http.MethodGet, "/api/temperatures/export?format=pdf", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.do(t, http.MethodGet, "/api/temperatures/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchiveTemperatures(t *testing.T) {
	s := newTestServer(t, nil)
	ingest(t, s, "salon", 205, "2024-03-02T09:15:00Z")

	w := s.do(t, http.MethodPost, "/api/temperatures/exports?format=csv&from=2024-03-01", nil)
	requireStatus(t, w, http.StatusCreated)
	out := decode[packets.ExportResponse](t, w)
	assert.Equal(t, "temperatures_01-03-2024_fin.csv", out.Name)
	assert.True(t, strings.HasPrefix(out.URL, "/exports/temperatures_01-03-2024_fin_"), out.URL)
	assert.True(t, strings.HasSuffix(out.URL, ".csv"), out.URL)
}
