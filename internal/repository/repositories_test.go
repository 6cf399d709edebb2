package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

type failingStore struct {
	kvstore.Store
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}

// flakyStore 在 getErr 非空时读取失败，其余操作委托给内存存储
type flakyStore struct {
	kvstore.Store
	getErr error
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.Store.Get(ctx, key)
}

func TestCartRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(kvstore.NewMemoryBackend().For("d1"))

	if _, found, err := repo.Load(ctx); err != nil || found {
		t.Fatalf("empty store should report absent, found=%v err=%v", found, err)
	}
	items := []models.CartItem{{ID: 1, Title: "Phone", Price: models.NewMoneyFromInt(200), Quantity: 3}}
	if err := repo.Save(ctx, items); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}
	got, found, err := repo.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load cart failed, found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0].Quantity != 3 || got[0].Price.String() != "200.00" {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestRepositoryMalformedPayload(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	if err := store.Set(ctx, constants.StorageKeyWishlist, "{not-json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, _, err := NewWishlistRepository(store).Load(ctx); !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("malformed payload should surface ErrCorruptDocument, got %v", err)
	}
}

func TestRepositoryReadFailure(t *testing.T) {
	if _, err := NewCredentialRepository(failingStore{}).List(context.Background()); err == nil {
		t.Fatalf("storage failure should surface an error")
	}
}

func TestRepositoriesUseDistinctKeys(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	set := NewSet(store)

	if err := set.Session.Save(ctx, models.Session{ID: "user_1", Email: "a@b.com"}); err != nil {
		t.Fatalf("save session failed: %v", err)
	}
	if err := set.Profile.Save(ctx, models.Profile{Username: "alice", Email: "a@b.com"}); err != nil {
		t.Fatalf("save profile failed: %v", err)
	}
	for _, key := range []string{constants.StorageKeySession, constants.StorageKeyProfile} {
		if _, found, _ := store.Get(ctx, key); !found {
			t.Fatalf("expected key %s to be written", key)
		}
	}
	if err := set.Session.Clear(ctx); err != nil {
		t.Fatalf("clear session failed: %v", err)
	}
	if _, found, _ := set.Session.Load(ctx); found {
		t.Fatalf("session should be cleared")
	}
	if _, found, _ := set.Profile.Load(ctx); !found {
		t.Fatalf("profile must survive session clear")
	}
}

func TestNotificationLogKeepsLatestEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationLogRepository(kvstore.NewMemoryBackend().For("d1"))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		entry := models.NotificationLog{
			Type:      constants.NotificationTypeLogin,
			To:        "a@b.com",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Append(ctx, entry, constants.NotificationLogLimit); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != constants.NotificationLogLimit {
		t.Fatalf("expected %d entries, got %d", constants.NotificationLogLimit, len(items))
	}
	if !items[0].Timestamp.Equal(base.Add(5 * time.Minute)) {
		t.Fatalf("oldest entries should be dropped first, got %v", items[0].Timestamp)
	}
}

func TestNotificationLogReadFailureKeepsEntries(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: kvstore.NewMemoryBackend().For("d1")}
	repo := NewNotificationLogRepository(store)
	if err := repo.Append(ctx, models.NotificationLog{Type: constants.NotificationTypeLogin, To: "a@b.com"}, 0); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	store.getErr = errors.New("connection reset")
	if err := repo.Append(ctx, models.NotificationLog{Type: constants.NotificationTypeRegistration, To: "a@b.com"}, 0); err == nil {
		t.Fatalf("append should fail while the store is unreadable")
	}

	store.getErr = nil
	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Type != constants.NotificationTypeLogin {
		t.Fatalf("existing entries should survive a read failure: %+v", items)
	}
}

func TestNotificationLogCorruptPayloadRestarts(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	if err := store.Set(ctx, constants.StorageKeyEmailLogs, "[oops"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	repo := NewNotificationLogRepository(store)
	if err := repo.Append(ctx, models.NotificationLog{Type: constants.NotificationTypeLogin, To: "a@b.com"}, 0); err != nil {
		t.Fatalf("append over corrupt log failed: %v", err)
	}
	items, err := repo.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("corrupt log should restart with the new entry, got %+v err=%v", items, err)
	}
}
