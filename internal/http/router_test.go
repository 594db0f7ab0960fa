package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/debateme/go-debate-backend/internal/config"
	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/genai"
)

// --- tiny fake generator to satisfy genai.Generator ---
type fakeGenerator struct{}

func (fakeGenerator) CounterArgument(_ context.Context, _ genai.ArgumentRequest) (string, error) {
	return "A firm counter-argument.", nil
}

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// schema so handlers don't explode on list endpoints
	if err := db.AutoMigrate(&domain.User{}, &domain.Debate{}, &domain.Round{}, &domain.Vote{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig(base string, origins []string) config.Config {
	return config.Config{
		APIBasePath: base,
		RateRPS:     100,
		RateBurst:   10,
		CORS:        config.CORSConfig{AllowedOrigins: origins},
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Auth:        config.AuthConfig{JWTSecret: "router-test-secret", JWTTTL: time.Hour},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), fakeGenerator{}, testConfig("/api/v1", nil))

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), fakeGenerator{}, testConfig("/api/v2", []string{"http://example.com"}))

	// Any request runs through CORS middleware; header should reflect origin.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// Hit all three
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/one", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "one" {
		t.Fatalf("GET /one got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/two", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "two" {
		t.Fatalf("GET /two got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /api/ping got %d %q", rec.Code, rec.Body.String())
	}
}

// Smoke test that a request traverses otel + ratelimit + security headers pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig("/api/v1", nil)
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	RegisterRoutes(r, newTestDB(t), fakeGenerator{}, cfg)

	// Any request goes through the middleware stack
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

// End-to-end: register, log in, run a full debate, vote from a second account.
func TestRouter_DebateFlow_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), fakeGenerator{}, testConfig("/api/v1", nil))

	post := func(path, token, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	register := func(username string) string {
		w := post("/api/v1/auth/register", "", fmt.Sprintf(`{"username":%q,"password":"hunter2hunter2"}`, username))
		if w.Code != http.StatusCreated {
			t.Fatalf("register %s -> %d body=%s", username, w.Code, w.Body.String())
		}
		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
			t.Fatalf("register %s: bad token (%v)", username, err)
		}
		return out.Token
	}

	owner := register("adam")
	voter := register("mia")

	// Unauthenticated create -> 401
	if w := post("/api/v1/debates", "", `{"topic":"Cats are better than dogs"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("anon create -> %d", w.Code)
	}

	// Create a debate
	w := post("/api/v1/debates", owner, `{"topic":"Cats are better than dogs","category":"life"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d body=%s", w.Code, w.Body.String())
	}
	var deb domain.Debate
	if err := json.Unmarshal(w.Body.Bytes(), &deb); err != nil {
		t.Fatalf("json: %v", err)
	}

	// Three rounds complete the debate
	for i := 1; i <= 3; i++ {
		body := fmt.Sprintf(`{"round_number":%d,"argument":"Cats groom themselves and respect your space, round %d."}`, i, i)
		w = post("/api/v1/debates/"+deb.ID+"/rounds", owner, body)
		if w.Code != http.StatusCreated {
			t.Fatalf("round %d -> %d body=%s", i, w.Code, w.Body.String())
		}
	}

	// Owner cannot vote on their own debate
	if w := post("/api/v1/debates/"+deb.ID+"/votes", owner, `{"vote_for":"human"}`); w.Code != http.StatusForbidden {
		t.Fatalf("self vote -> %d", w.Code)
	}

	// Second account votes
	w = post("/api/v1/debates/"+deb.ID+"/votes", voter, `{"vote_for":"human"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("vote -> %d body=%s", w.Code, w.Body.String())
	}

	// Duplicate vote -> 409
	if w := post("/api/v1/debates/"+deb.ID+"/votes", voter, `{"vote_for":"ai"}`); w.Code != http.StatusConflict {
		t.Fatalf("dup vote -> %d", w.Code)
	}

	// Public detail shows three rounds and the tally
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/debates/"+deb.ID, nil)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("detail -> %d body=%s", w2.Code, w2.Body.String())
	}
	var detail struct {
		Debate domain.Debate  `json:"debate"`
		Rounds []domain.Round `json:"rounds"`
		Tally  struct {
			Total int64 `json:"total"`
		} `json:"tally"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &detail); err != nil {
		t.Fatalf("json: %v", err)
	}
	if detail.Debate.Status != domain.StatusCompleted || len(detail.Rounds) != 3 || detail.Tally.Total != 1 {
		t.Fatalf("unexpected detail: status=%s rounds=%d total=%d",
			detail.Debate.Status, len(detail.Rounds), detail.Tally.Total)
	}

	// Leaderboard and profile are public
	w2 = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("leaderboard -> %d", w2.Code)
	}
	w2 = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/adam", nil)
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("profile -> %d", w2.Code)
	}
}
