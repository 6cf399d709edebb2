package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

type failingCredentialRepo struct {
	repository.CredentialRepository
	listErr error
	saveErr error
	stored  []models.Credential
}

func (r *failingCredentialRepo) List(context.Context) ([]models.Credential, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]models.Credential(nil), r.stored...), nil
}

func (r *failingCredentialRepo) SaveAll(_ context.Context, items []models.Credential) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored = items
	return nil
}

func newTestAuth(t *testing.T, store kvstore.Store, notifier Notifier) *AuthService {
	t.Helper()
	auth := NewAuthService(newTestConfig(), repository.NewSet(store), notifier)
	auth.Restore(context.Background())
	t.Cleanup(func() {
		_ = auth.Close(context.Background())
	})
	return auth
}

func TestRegisterDoesNotStoreRawPassword(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	notifier := &recordingNotifier{}
	auth := newTestAuth(t, store, notifier)

	session, err := auth.Register(ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.HasPrefix(session.ID, constants.IDPrefixUser) || session.Email != "alice@example.com" {
		t.Fatalf("unexpected session view: %+v", session)
	}
	if auth.CurrentUser() != nil {
		t.Fatalf("registration must not log the user in")
	}
	raw, _, _ := store.Get(ctx, constants.StorageKeyCredentials)
	if strings.Contains(raw, "secret123") {
		t.Fatalf("raw password persisted: %s", raw)
	}
	if kinds := notifier.kinds(); len(kinds) != 1 || kinds[0] != "registration" {
		t.Fatalf("expected one registration notification, got %v", kinds)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	auth := newTestAuth(t, store, nil)

	first, err := auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before, _, _ := store.Get(ctx, constants.StorageKeyCredentials)

	_, err = auth.Register(ctx, RegisterInput{Username: "mallory", Email: "ALICE@example.com", Password: "other-pass"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	after, _, _ := store.Get(ctx, constants.StorageKeyCredentials)
	if before != after {
		t.Fatalf("credential collection changed on conflict")
	}
	records, _ := repository.NewCredentialRepository(store).List(ctx)
	if len(records) != 1 || records[0].ID != first.ID || records[0].Username != "alice" {
		t.Fatalf("unexpected credential records: %+v", records)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth(t, kvstore.NewMemoryBackend().For("d1"), nil)
	ctx := context.Background()

	if _, err := auth.Register(ctx, RegisterInput{Username: " ", Email: "a@b.com", Password: "secret123"}); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
	if _, err := auth.Register(ctx, RegisterInput{Username: "a", Email: "not-an-email", Password: "secret123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := auth.Register(ctx, RegisterInput{Username: "a", Email: "a@b.com", Password: "123"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	_, err := auth.Register(ctx, RegisterInput{Username: "a", Email: "a@b.com", Password: strings.Repeat("x", 80)})
	var perr passwordPolicyError
	if !errors.Is(err, ErrWeakPassword) || !errors.As(err, &perr) || perr.Rule() != "max_length" {
		t.Fatalf("expected max_length policy error for long password, got %v", err)
	}
	if stored, _ := auth.credentials.List(ctx); len(stored) != 0 {
		t.Fatalf("rejected registration should not be stored: %+v", stored)
	}
}

func TestRegisterPersistFailure(t *testing.T) {
	repo := &failingCredentialRepo{saveErr: errors.New("disk full")}
	auth := NewAuthService(newTestConfig(), &repository.Set{Credentials: repo}, nil)
	defer auth.Close(context.Background())

	_, err := auth.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.com", Password: "secret123"})
	if !errors.Is(err, ErrCredentialPersistFailed) {
		t.Fatalf("expected ErrCredentialPersistFailed, got %v", err)
	}
}

func TestRegisterRefusesToOverwriteUnreadableStore(t *testing.T) {
	repo := &failingCredentialRepo{listErr: errors.New("corrupt")}
	auth := NewAuthService(newTestConfig(), &repository.Set{Credentials: repo}, nil)
	defer auth.Close(context.Background())

	_, err := auth.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.com", Password: "secret123"})
	if !errors.Is(err, ErrCredentialStoreFailed) {
		t.Fatalf("expected ErrCredentialStoreFailed, got %v", err)
	}
}

func TestLoginCorrectness(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	auth := newTestAuth(t, kvstore.NewMemoryBackend().For("d1"), notifier)

	registered, err := auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123", Phone: "9000000000"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	session, err := auth.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.ID != registered.ID || session.Email != "alice@example.com" || session.Username != "alice" {
		t.Fatalf("unexpected session: %+v", session)
	}
	current := auth.CurrentUser()
	if current == nil || current.ID != registered.ID {
		t.Fatalf("current user not set: %+v", current)
	}
	if notifier.last().kind != "login" {
		t.Fatalf("expected login notification, got %+v", notifier.last())
	}

	if _, err := auth.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) || !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected password mismatch, got %v", err)
	}
	if after := auth.CurrentUser(); after == nil || after.ID != registered.ID {
		t.Fatalf("failed login must not change the session, got %+v", after)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	auth := newTestAuth(t, kvstore.NewMemoryBackend().For("d1"), nil)
	_, err := auth.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should also report ErrInvalidCredentials")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("causes must stay distinguishable")
	}
}

func TestSessionRestoreAndLogout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")

	auth := NewAuthService(newTestConfig(), repository.NewSet(store), nil)
	if !auth.Loading() {
		t.Fatalf("auth should report loading before restore")
	}
	auth.Restore(ctx)
	if auth.Loading() {
		t.Fatalf("restore should finish loading")
	}
	if _, err := auth.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := auth.Login(ctx, "bob@example.com", "hunter22"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := auth.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	restarted := NewAuthService(newTestConfig(), repository.NewSet(store), nil)
	defer restarted.Close(ctx)
	restarted.Restore(ctx)
	if user := restarted.CurrentUser(); user == nil || user.Email != "bob@example.com" {
		t.Fatalf("session should survive restart, got %+v", user)
	}

	restarted.Logout(ctx)
	if restarted.CurrentUser() != nil {
		t.Fatalf("logout should clear the session")
	}
	flushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := restarted.Flush(flushCtx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if _, found, _ := store.Get(ctx, constants.StorageKeySession); found {
		t.Fatalf("logout should remove the persisted session")
	}
}

func TestRestoreIgnoresMalformedSession(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryBackend().For("d1")
	_ = store.Set(ctx, constants.StorageKeySession, `{"username":"nobody"}`)

	auth := newTestAuth(t, store, nil)
	if auth.CurrentUser() != nil {
		t.Fatalf("incomplete session should leave the user anonymous")
	}
}

func TestWaitReadyHonoursContext(t *testing.T) {
	auth := NewAuthService(newTestConfig(), nil, nil)
	defer auth.Close(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := auth.WaitReady(ctx)
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, ErrAuthNotReady) {
		t.Fatalf("expected not-ready deadline error, got %v", err)
	}
}
