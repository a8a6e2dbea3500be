package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/adapters/cache"
	"github.com/mikey/mailrisk/internal/adapters/store"
	"github.com/mikey/mailrisk/internal/core"
	"github.com/mikey/mailrisk/internal/detect"
)

type nopEmitter struct{}

func (nopEmitter) ServedAssessment(core.RiskLevel) {}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()

	catalog, err := detect.NewCatalog(nil)
	require.NoError(t, err)
	engine, err := detect.NewEngine(catalog, detect.NewDetectors(nil, nil), detect.DefaultThresholds, zap.NewNop())
	require.NoError(t, err)

	ms := store.NewMemoryStore()
	mc := cache.NewMemoryCache(zap.NewNop(), time.Minute, 0)
	t.Cleanup(mc.Stop)

	svc := core.NewRiskService(ms, ms, mc, engine, nopEmitter{}, zap.NewNop(), true, 200*time.Millisecond)
	return New("127.0.0.1:0", svc, zap.NewNop()), ms
}

func TestAssessmentEndpoint(t *testing.T) {
	srv, ms := newTestServer(t)
	require.NoError(t, ms.PutMessage(context.Background(), &core.NormalizedMessage{
		MessageID:     "m1",
		FromDomain:    "corp.test",
		ReplyToDomain: "attacker.test",
		SPF:           core.VerdictFail,
		DKIM:          core.VerdictFail,
		DMARC:         core.VerdictFail,
		Attachments:   []core.Attachment{{Filename: "run.exe"}},
		URLs:          []string{"https://bit.ly/x"},
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/messages/m1/assessment", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Score        int      `json:"score"`
		Level        string   `json:"level"`
		Explanations []string `json:"explanations"`
		Signals      []string `json:"signals"`
		ComputedAt   string   `json:"computed_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 85, body.Score)
	assert.Equal(t, "suspicious", body.Level)
	assert.Len(t, body.Explanations, 6)
	assert.Len(t, body.Signals, 6)

	_, err := time.Parse(time.RFC3339Nano, body.ComputedAt)
	assert.NoError(t, err, "computed_at must be an ISO-8601 timestamp")
}

func TestAssessmentNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/messages/ghost/assessment", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "message not found", body["error"])
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
