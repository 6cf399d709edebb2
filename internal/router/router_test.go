package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

type storefrontClient struct {
	t      *testing.T
	engine *gin.Engine
	device string
	token  string
}

func newTestContainer(t *testing.T) *provider.Container {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Driver = "memory"
	cfg.Notify.Enabled = false
	cfg.Security.BcryptCost = 4
	cfg.UserJWT.SecretKey = "router-integration-secret"
	container, err := provider.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Close(context.Background())
	})
	return container
}

func (s *storefrontClient) do(method, path string, body interface{}) envelope {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.device != "" {
		req.Header.Set(constants.HeaderDeviceID, s.device)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return decodeEnvelope(s.t, w)
}

func TestStorefrontCheckoutFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newTestContainer(t)
	client := &storefrontClient{t: t, engine: SetupRouter(container.Config, container), device: "device-flow"}

	if resp := client.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret1",
	}); resp.StatusCode != 0 {
		t.Fatalf("register failed: %+v", resp)
	}
	if resp := client.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret1",
	}); resp.StatusCode != 409 {
		t.Fatalf("duplicate register want 409 got %d", resp.StatusCode)
	}

	if resp := client.do(http.MethodGet, "/api/v1/me", nil); resp.StatusCode != 401 {
		t.Fatalf("me without token want 401 got %d", resp.StatusCode)
	}

	login := client.do(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if login.StatusCode != 0 {
		t.Fatalf("login failed: %+v", login)
	}
	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Data, &loginData); err != nil || loginData.Token == "" {
		t.Fatalf("login token missing: %v %s", err, string(login.Data))
	}
	client.token = loginData.Token

	if resp := client.do(http.MethodPost, "/api/v1/checkout", gin.H{"payment_succeeded": true}); resp.StatusCode != 400 {
		t.Fatalf("checkout with empty cart want 400 got %d", resp.StatusCode)
	}

	if resp := client.do(http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": 7,
		"quantity":   2,
		"title":      "Desk Lamp",
		"price":      "120.00",
	}); resp.StatusCode != 0 {
		t.Fatalf("add cart item failed: %+v", resp)
	}
	summary := client.do(http.MethodGet, "/api/v1/cart/summary", nil)
	if !strings.Contains(string(summary.Data), `"item_count":2`) {
		t.Fatalf("unexpected cart summary: %s", string(summary.Data))
	}

	if resp := client.do(http.MethodPost, "/api/v1/checkout", gin.H{"payment_succeeded": true}); resp.StatusCode != 400 {
		t.Fatalf("checkout without address want 400 got %d", resp.StatusCode)
	}

	if resp := client.do(http.MethodPost, "/api/v1/addresses", gin.H{
		"name":     "Alice",
		"street":   "1 Main St",
		"city":     "Pune",
		"state":    "MH",
		"zip_code": "411001",
		"phone":    "9999999999",
	}); resp.StatusCode != 0 {
		t.Fatalf("create address failed: %+v", resp)
	}

	failed := client.do(http.MethodPost, "/api/v1/checkout", gin.H{
		"payment_succeeded": false,
		"failure_reason":    "card declined",
	})
	if failed.StatusCode != 400 || failed.Msg != "card declined" {
		t.Fatalf("failed payment want 400 with reason, got %+v", failed)
	}

	done := client.do(http.MethodPost, "/api/v1/checkout", gin.H{"payment_succeeded": true, "payment_id": "pay_1"})
	if done.StatusCode != 0 {
		t.Fatalf("checkout failed: %+v", done)
	}
	if !strings.Contains(string(done.Data), `"success":true`) {
		t.Fatalf("checkout result should be successful: %s", string(done.Data))
	}

	cart := client.do(http.MethodGet, "/api/v1/cart", nil)
	if !strings.Contains(string(cart.Data), `"items":[]`) {
		t.Fatalf("cart should be cleared after checkout: %s", string(cart.Data))
	}
	orders := client.do(http.MethodGet, "/api/v1/orders", nil)
	if !strings.Contains(string(orders.Data), "Desk Lamp") {
		t.Fatalf("order history should contain the item: %s", string(orders.Data))
	}

	if err := container.Dispatcher.Wait(context.Background()); err != nil {
		t.Fatalf("wait dispatcher failed: %v", err)
	}
	logs := client.do(http.MethodGet, "/api/v1/notifications", nil)
	for _, kind := range []string{constants.NotificationTypeRegistration, constants.NotificationTypeLogin, constants.NotificationTypeOrderSuccess} {
		if !strings.Contains(string(logs.Data), `"`+kind+`"`) {
			t.Fatalf("notification log missing %s: %s", kind, string(logs.Data))
		}
	}

	if resp := client.do(http.MethodPost, "/api/v1/auth/logout", nil); resp.StatusCode != 0 {
		t.Fatalf("logout failed: %+v", resp)
	}
	if resp := client.do(http.MethodGet, "/api/v1/me", nil); resp.StatusCode != 401 {
		t.Fatalf("token after logout want 401 got %d", resp.StatusCode)
	}
}

func TestDevicesAreIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := newTestContainer(t)
	engine := SetupRouter(container.Config, container)
	first := &storefrontClient{t: t, engine: engine, device: "device-one"}
	second := &storefrontClient{t: t, engine: engine, device: "device-two"}

	if resp := first.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{
		"product_id": 3,
		"title":      "Kettle",
		"price":      45,
	}); resp.StatusCode != 0 {
		t.Fatalf("add wishlist item failed: %+v", resp)
	}

	if resp := first.do(http.MethodGet, "/api/v1/wishlist", nil); !strings.Contains(string(resp.Data), "Kettle") {
		t.Fatalf("first device should see its wishlist: %s", string(resp.Data))
	}
	if resp := second.do(http.MethodGet, "/api/v1/wishlist", nil); strings.Contains(string(resp.Data), "Kettle") {
		t.Fatalf("second device should not see first device wishlist: %s", string(resp.Data))
	}
}
