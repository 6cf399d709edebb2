package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type notifyEvent struct {
	kind     string
	to       string
	username string
	orderID  string
	reason   string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (n *recordingNotifier) record(event notifyEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Registration(to, username string) {
	n.record(notifyEvent{kind: "registration", to: to, username: username})
}

func (n *recordingNotifier) Login(to, username string) {
	n.record(notifyEvent{kind: "login", to: to, username: username})
}

func (n *recordingNotifier) OrderSuccess(to, username string, order models.Order) {
	n.record(notifyEvent{kind: "order_success", to: to, username: username, orderID: order.ID})
}

func (n *recordingNotifier) OrderFailure(to, username, orderID, reason string) {
	n.record(notifyEvent{kind: "order_failure", to: to, username: username, orderID: orderID, reason: reason})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.kind)
	}
	return out
}

func (n *recordingNotifier) last() notifyEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return notifyEvent{}
	}
	return n.events[len(n.events)-1]
}

func newTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func newTestStorefront(t *testing.T, backend kvstore.Backend, notifier Notifier) *Storefront {
	t.Helper()
	if backend == nil {
		backend = kvstore.NewMemoryBackend()
	}
	sf := NewStorefront(newTestConfig(), "device-test", backend.For("device-test"), notifier)
	sf.Hydrate(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = sf.Close(ctx)
	})
	return sf
}

func flushStorefront(t *testing.T, sf *Storefront) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sf.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
}

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}
