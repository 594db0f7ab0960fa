package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debateme/go-debate-backend/internal/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mgr := auth.NewManager("test-secret", time.Hour)
	r := gin.New()
	r.Use(RequireAuth(mgr))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r, mgr
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r, mgr := newAuthRouter(t)
	token, err := mgr.Issue("u-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "u-42" {
		t.Fatalf("got %d %q; want 200 u-42", w.Code, w.Body.String())
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	r, _ := newAuthRouter(t)

	expired, err := auth.NewManager("test-secret", -time.Minute).Issue("u-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	wrongKey, err := auth.NewManager("other-secret", time.Hour).Issue("u-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]string{
		"no header":      "",
		"not bearer":     "Basic abc123",
		"empty token":    "Bearer ",
		"garbage token":  "Bearer not-a-jwt",
		"expired token":  "Bearer " + expired,
		"wrong signer":   "Bearer " + wrongKey,
		"missing scheme": "sometoken",
	}
	for name, header := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d; want 401", name, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid JSON: %v", name, err)
		}
		if body["code"] != "unauthorized" {
			t.Fatalf("%s: code = %v; want unauthorized", name, body["code"])
		}
	}
}

func TestUserID_EmptyWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := UserID(c); got != "" {
		t.Fatalf("UserID = %q; want empty", got)
	}
}
