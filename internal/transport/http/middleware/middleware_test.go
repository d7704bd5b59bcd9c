package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"task-manager/internal/core/auth"
	"task-manager/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver map[string]*domain.User

func (s stubResolver) Resolve(_ context.Context, uid string) (*domain.User, error) {
	if uid == "broken" {
		return nil, errors.New("db down")
	}
	u, ok := s[uid]
	if !ok {
		return nil, domain.NotFound("User not found.")
	}
	return u, nil
}

func guarded(j *auth.JWTer, users CallerResolver, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthJWT(j, users)}, extra...)
	chain = append(chain, func(c *gin.Context) { c.String(http.StatusOK, Caller(c).ID) })
	r.GET("/p", chain...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := auth.NewJWTer("secret", "task-manager", time.Hour)
	users := stubResolver{"u1": {ID: "u1", Role: domain.RoleMember}}
	r := guarded(j, users)

	good, _ := j.Issue("u1")
	ghost, _ := j.Issue("ghost")
	broken, _ := j.Issue("broken")
	other, _ := auth.NewJWTer("other-secret", "task-manager", time.Hour).Issue("u1")
	expired := auth.NewJWTer("secret", "task-manager", time.Hour)
	expired.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, _ := expired.Issue("u1")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"valid", good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "not-a-jwt", http.StatusUnauthorized},
		{"wrong signature", other, http.StatusUnauthorized},
		{"expired", old, http.StatusUnauthorized},
		{"deleted user", ghost, http.StatusUnauthorized},
		{"store failure", broken, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.token)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("caller = %q", w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	j := auth.NewJWTer("secret", "task-manager", time.Hour)
	users := stubResolver{
		"m": {ID: "m", Role: domain.RoleMember},
		"a": {ID: "a", Role: domain.RoleAdmin},
	}
	r := guarded(j, users, RequireRole(domain.RoleAdmin))

	mt, _ := j.Issue("m")
	at, _ := j.Issue("a")
	if w := get(r, mt); w.Code != http.StatusForbidden {
		t.Errorf("member: status = %d, want 403", w.Code)
	}
	if w := get(r, at); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", w.Code)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/p", RateLimitPerIP(0.001, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	for i := 0; i < 2; i++ {
		if code := hit("10.0.0.1"); code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("burst exhausted: status = %d, want 429", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusNoContent {
		t.Errorf("other ip: status = %d, want 204", code)
	}
}

func TestAccessLog_MasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/p?token=abc&page=2", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(KeyRequestID) != "rid-1" {
		t.Errorf("request id not echoed")
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rid"] != "rid-1" || fields["status"] != int64(http.StatusOK) {
		t.Errorf("fields = %v", fields)
	}
	q, _ := fields["query"].(map[string][]string)
	if q["token"][0] != "****" || q["page"][0] != "2" {
		t.Errorf("query = %v", fields["query"])
	}
}
