package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// AuthService 本地账号与当前会话
// 状态：loading -> authenticated | anonymous
type AuthService struct {
	policy      config.PasswordPolicyConfig
	bcryptCost  int
	credentials repository.CredentialRepository
	sessions    repository.SessionRepository
	notifier    Notifier
	writer      *asyncWriter

	// registerMu 串行化账号集合的读-改-写
	registerMu sync.Mutex

	mu      sync.RWMutex
	current *models.Session
	version uint64
	ready   chan struct{}
	once    sync.Once

	now func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, repos *repository.Set, notifier Notifier) *AuthService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &AuthService{
		bcryptCost: bcrypt.DefaultCost,
		notifier:   notifier,
		ready:      make(chan struct{}),
		now:        time.Now,
	}
	if repos != nil {
		s.credentials = repos.Credentials
		s.sessions = repos.Session
	}
	timeout := defaultPersistTimeout
	if cfg != nil {
		s.policy = cfg.Security.PasswordPolicy
		if cfg.Security.BcryptCost >= bcrypt.MinCost && cfg.Security.BcryptCost <= bcrypt.MaxCost {
			s.bcryptCost = cfg.Security.BcryptCost
		}
		timeout = cfg.Persist.WriteTimeout()
	}
	s.writer = newAsyncWriter("session", timeout)
	return s
}

// Restore 启动时恢复持久化会话，完成前 Loading 返回 true
func (s *AuthService) Restore(ctx context.Context) {
	defer s.once.Do(func() { close(s.ready) })

	s.mu.RLock()
	startVersion := s.version
	s.mu.RUnlock()

	if s.sessions == nil {
		return
	}
	session, found, err := s.sessions.Load(ctx)
	if err != nil {
		logger.Warnw("session_restore_failed", "error", err)
		return
	}
	if !found || session == nil || !session.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 恢复期间已发生登录或登出时以内存状态为准
	if s.version != startVersion {
		return
	}
	restored := *session
	s.current = &restored
}

// Loading 会话恢复是否仍在进行
func (s *AuthService) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// WaitReady 阻塞直到会话恢复完成，超时返回 ErrAuthNotReady
func (s *AuthService) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrAuthNotReady, ctx.Err())
	}
}

// Register 注册账号，不建立会话
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.policy, input.Password); err != nil {
		return nil, err
	}
	if s.credentials == nil {
		return nil, ErrCredentialStoreFailed
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	existing, err := s.credentials.List(ctx)
	if err != nil {
		// 读取失败时不能当作空集合覆盖写入
		logger.Errorw("credential_store_read_failed", "error", err)
		return nil, ErrCredentialStoreFailed
	}
	for _, item := range existing {
		if strings.EqualFold(item.Email, email) {
			return nil, ErrEmailExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	credential := models.Credential{
		ID:           constants.IDPrefixUser + uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(input.Phone),
		CreatedAt:    s.now().UTC(),
	}
	next := make([]models.Credential, 0, len(existing)+1)
	next = append(next, existing...)
	next = append(next, credential)
	if err := s.credentials.SaveAll(ctx, next); err != nil {
		logger.Errorw("credential_persist_failed", "email", email, "error", err)
		return nil, ErrCredentialPersistFailed
	}

	logger.Infow("user_registered", "user_id", credential.ID, "email", email)
	s.notifier.Registration(credential.Email, credential.Username)
	session := credential.ToSession()
	return &session, nil
}

// Login 校验账号密码并建立会话
// 失败时返回 ErrCredentialNotFound 或 ErrPasswordMismatch，二者均满足 errors.Is(err, ErrInvalidCredentials)
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var records []models.Credential
	if s.credentials != nil {
		records, err = s.credentials.List(ctx)
		if err != nil {
			logger.Warnw("credential_store_read_failed", "error", err)
			records = nil
		}
	}

	var matched *models.Credential
	for i := range records {
		if strings.EqualFold(records[i].Email, normalized) {
			matched = &records[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrCredentialNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(matched.PasswordHash), []byte(password)); err != nil {
		return nil, ErrPasswordMismatch
	}

	session := matched.ToSession()
	s.mu.Lock()
	s.version++
	current := session
	s.current = &current
	if s.sessions != nil {
		persisted := session
		s.writer.Submit(func(ctx context.Context) error {
			return s.sessions.Save(ctx, persisted)
		})
	}
	s.mu.Unlock()

	logger.Infow("user_logged_in", "user_id", session.ID)
	s.notifier.Login(session.Email, session.Username)
	return &session, nil
}

// Logout 清除会话，不返回错误
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.current = nil
	if s.sessions != nil {
		s.writer.Submit(func(ctx context.Context) error {
			return s.sessions.Clear(ctx)
		})
	}
}

// CurrentUser 当前会话副本，未登录返回 nil
func (s *AuthService) CurrentUser() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// Authenticated 是否已登录
func (s *AuthService) Authenticated() bool {
	return s.CurrentUser() != nil
}

// Flush 等待会话落盘完成
func (s *AuthService) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close 落盘剩余数据并停止后台协程
func (s *AuthService) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(normalized)
	if err != nil || parsed.Address != normalized {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}
