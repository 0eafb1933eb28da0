package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/config"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConfig returns an in-memory configuration using the bundled
// reference data.
func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "debug",
			ShutdownTimeout: 2 * time.Second,
		},
		Practice: config.PracticeConfig{
			DefaultProfile:  "flexible",
			SimplifyEpsilon: 0.02,
			StrokeDataPath:  filepath.Join("..", "..", "data", "characters.json"),
			WordListPath:    filepath.Join("..", "..", "data", "words.json"),
			DueLimit:        20,
		},
	}
}

func newTestApp(t *testing.T) *application {
	t.Helper()
	log, _ := logger.NewTestLogger(t)

	app, err := newApplication(context.Background(), newTestConfig(), log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func serveRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewApplicationInMemory(t *testing.T) {
	app := newTestApp(t)

	assert.Nil(t, app.db)
	assert.NotNil(t, app.cardStateStore)
	assert.NotNil(t, app.practiceService)
	assert.Empty(t, app.references.MissingCharacters())
}

func TestNewApplicationErrors(t *testing.T) {
	t.Run("missing stroke data", func(t *testing.T) {
		log, _ := logger.NewTestLogger(t)
		cfg := newTestConfig()
		cfg.Practice.StrokeDataPath = filepath.Join(t.TempDir(), "missing.json")

		app, err := newApplication(context.Background(), cfg, log)

		require.Error(t, err)
		assert.Nil(t, app)
		assert.Contains(t, err.Error(), "failed to load reference data")
	})

	t.Run("unknown default profile", func(t *testing.T) {
		log, _ := logger.NewTestLogger(t)
		cfg := newTestConfig()
		cfg.Practice.DefaultProfile = "lenient"

		_, err := newApplication(context.Background(), cfg, log)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "practice.default_profile")
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rec := serveRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRouterPracticeFlow(t *testing.T) {
	router := newTestApp(t).setupRouter()

	// Trace the reference stroke of 一 on a 100x100 surface, unsimplified.
	rec := serveRequest(router, http.MethodPost, "/api/strokes/judge", `{
		"character": "一",
		"stroke_index": 0,
		"samples": [[12, 52], [35, 50], [60, 49], [88, 50]],
		"width": 100,
		"height": 100,
		"epsilon": 0
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var judged map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &judged))
	assert.Equal(t, "ok", judged["verdict"])
	assert.InDelta(t, 1.0, judged["score"], 1e-9)
	assert.Equal(t, "flexible", judged["profile"])
	assert.Equal(t, float64(1), judged["stroke_count"])

	rec = serveRequest(router, http.MethodPost, "/api/strokes/judge", `{
		"character": "一",
		"stroke_index": 1,
		"samples": [[12, 52], [88, 50]],
		"width": 100,
		"height": 100
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A surface this small divides the samples to infinity.
	rec = serveRequest(router, http.MethodPost, "/api/strokes/judge", `{
		"character": "一",
		"stroke_index": 0,
		"samples": [[1, 0], [2, 0]],
		"width": 1e-320,
		"height": 1
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Invalid stroke input")

	rec = serveRequest(router, http.MethodPost, "/api/cards/w-yi/rate", `{"rating": "good"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rated))
	assert.Equal(t, float64(1), rated["interval_days"])
	assert.Equal(t, float64(1), rated["review_count"])

	rec = serveRequest(router, http.MethodGet, "/api/cards/w-yi", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveRequest(router, http.MethodGet, "/api/cards/w-er", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveRequest(router, http.MethodGet, "/api/cards/due", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cards": []}`, rec.Body.String())

	rec = serveRequest(router, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	backup := rec.Body.String()
	assert.Contains(t, backup, `"w-yi"`)

	rec = serveRequest(router, http.MethodPost, "/api/import", `{"version": 1, "srs": {}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = serveRequest(router, http.MethodGet, "/api/cards/w-yi", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveRequest(router, http.MethodPost, "/api/import", backup)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = serveRequest(router, http.MethodGet, "/api/export", "")
	assert.JSONEq(t, backup, rec.Body.String())
}

func TestRouterReferenceData(t *testing.T) {
	router := newTestApp(t).setupRouter()

	rec := serveRequest(router, http.MethodGet, "/api/characters/%E5%8D%81/strokes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var strokes struct {
		Character string         `json:"character"`
		Strokes   [][][2]float64 `json:"strokes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &strokes))
	assert.Equal(t, "十", strokes.Character)
	assert.Len(t, strokes.Strokes, 2)

	rec = serveRequest(router, http.MethodGet, "/api/words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var words struct {
		Words []map[string]any `json:"words"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &words))
	assert.NotEmpty(t, words.Words)
}

func TestServeGracefulShutdown(t *testing.T) {
	app := newTestApp(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, listener, app.setupRouter())
	}()

	url := "http://" + listener.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  log_level: warn
practice:
  default_profile: strict
`), 0o600))

	cfg, err := loadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "strict", cfg.Practice.DefaultProfile)

	_, err = loadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRunMigrationsRequiresDatabase(t *testing.T) {
	log, _ := logger.NewTestLogger(t)

	err := runMigrations(context.Background(), newTestConfig(), log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
}
