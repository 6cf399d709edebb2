package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func newMiddlewareRegistry(t *testing.T) *service.Registry {
	t.Helper()
	cfg := config.Default()
	cfg.Security.BcryptCost = 4
	registry := service.NewRegistry(cfg, kvstore.NewMemoryBackend(), nil)
	t.Cleanup(func() {
		_ = registry.Close(context.Background())
	})
	return registry
}

func TestDeviceMiddlewareRejectsInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(DeviceMiddleware(newMiddlewareRegistry(t)))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"device": c.GetString(constants.ContextKeyDeviceID)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderDeviceID, "bad id/with spaces")
	r.ServeHTTP(w, req)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if !strings.Contains(w2.Body.String(), constants.StorageNamespaceDefault) {
		t.Fatalf("missing header should map to default device, got %s", w2.Body.String())
	}
	if got := w2.Header().Get(constants.HeaderDeviceID); got != constants.StorageNamespaceDefault {
		t.Fatalf("resolved device id should be echoed, got %q", got)
	}
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(DeviceMiddleware(newMiddlewareRegistry(t)))
	r.Use(UserJWTAuthMiddleware(service.NewTokenService(config.JWTConfig{})))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestUserJWTAuthMiddlewareRejectsStaleSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := newMiddlewareRegistry(t)
	tokens := service.NewTokenService(config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1})

	r := gin.New()
	r.Use(DeviceMiddleware(registry))
	r.Use(UserJWTAuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(constants.ContextKeyUserID)})
	})

	ctx := context.Background()
	storefront, err := registry.Get(ctx, "dev-a")
	if err != nil {
		t.Fatalf("get storefront failed: %v", err)
	}
	if _, err := storefront.Auth.Register(ctx, service.RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	session, err := storefront.Auth.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	token, _, err := tokens.GenerateUserJWT(session, "dev-a")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	call := func(device string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(constants.HeaderDeviceID, device)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w
	}

	if w := call("dev-a"); !strings.Contains(w.Body.String(), session.ID) {
		t.Fatalf("valid token should pass, got %s", w.Body.String())
	}
	if resp := decodeEnvelope(t, call("dev-b")); resp.StatusCode != 401 {
		t.Fatalf("token from another device should be rejected, got %d", resp.StatusCode)
	}
	storefront.Auth.Logout(ctx)
	if resp := decodeEnvelope(t, call("dev-a")); resp.StatusCode != 401 {
		t.Fatalf("token after logout should be rejected, got %d", resp.StatusCode)
	}
}
