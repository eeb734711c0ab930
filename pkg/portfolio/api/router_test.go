package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/memory"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
	"github.com/tendant/simple-portfolio/pkg/portfolio/urlstrategy"
)

const testBaseURL = "http://localhost:8080/files"

type testEnv struct {
	router http.Handler
	svc    portfolio.Service
	repo   portfolio.Repository
	blobs  *memorystorage.Backend
}

// deadRepo fails every ping
type deadRepo struct {
	*memory.Repository
}

func (deadRepo) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	return newTestEnvWithRepo(t, memory.New(), cfg)
}

func newTestEnvWithRepo(t *testing.T, repo portfolio.Repository, cfg Config) *testEnv {
	t.Helper()
	blobs := memorystorage.New()
	resolver, err := urlstrategy.New(urlstrategy.Config{PublicBase: testBaseURL})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := portfolio.New(
		portfolio.WithRepository(repo),
		portfolio.WithBlobStore(blobs),
		portfolio.WithURLResolver(resolver),
		portfolio.WithLogger(logger),
	)
	require.NoError(t, err)

	if cfg.RateLimit == 0 {
		cfg.RateLimit = -1
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	cfg.Files = blobs

	return &testEnv{router: NewRouter(svc, cfg), svc: svc, repo: repo, blobs: blobs}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field    string
	name     string
	mimeType string
	content  string
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		h.Set("Content-Type", f.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "connected", resp.Database)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealth_DatabaseDown(t *testing.T) {
	env := newTestEnvWithRepo(t, deadRepo{memory.New()}, Config{})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "disconnected", resp.Database)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestWriteRoutesRequireToken(t *testing.T) {
	const secret = "test-secret"
	env := newTestEnv(t, Config{JWTSecret: secret})
	body := CreateArtworkFromURLRequest{
		Title:       "Blue Vase",
		Description: "Stoneware",
		Category:    "ceramic",
		MediaURL:    "https://example.com/vase.jpg",
	}

	t.Run("reads are public", func(t *testing.T) {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/artwork", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, jsonRequest(t, http.MethodPost, "/api/artwork/no-upload", body))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, token, err := jwtauth.New("HS256", []byte("other"), nil).Encode(map[string]interface{}{"sub": "admin"})
		require.NoError(t, err)

		req := jsonRequest(t, http.MethodPost, "/api/artwork/no-upload", body)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := env.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		_, token, err := jwtauth.New("HS256", []byte(secret), nil).Encode(map[string]interface{}{"sub": "admin"})
		require.NoError(t, err)

		req := jsonRequest(t, http.MethodPost, "/api/artwork/no-upload", body)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := env.do(t, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, Config{AllowedOrigins: []string{"https://portfolio.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/artwork", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := env.do(t, req)
	assert.Equal(t, "https://portfolio.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/artwork", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = env.do(t, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, Config{RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/artwork", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/artwork", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

type observation struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method, route, status})
}

func TestRequestObserverSeesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	env := newTestEnv(t, Config{Observer: obs})

	env.do(t, httptest.NewRequest(http.MethodGet, "/api/artwork/"+uuid.NewString(), nil))

	require.Len(t, obs.seen, 1)
	assert.Equal(t, observation{http.MethodGet, "/api/artwork/{id}", http.StatusNotFound}, obs.seen[0])
}

func TestMaxBodyBytes(t *testing.T) {
	env := newTestEnv(t, Config{MaxBodyBytes: 64})

	req := multipartRequest(t, http.MethodPost, "/api/upload/single", nil,
		formFile{"media", "big.png", "image/png", string(bytes.Repeat([]byte("x"), 1024))})
	rec := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.blobs.Keys())
}
