package repository

import (
	"context"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

// CredentialRepository 已注册账号集合持久化接口
type CredentialRepository interface {
	List(ctx context.Context) ([]models.Credential, error)
	SaveAll(ctx context.Context, credentials []models.Credential) error
}

// SessionRepository 当前会话持久化接口
type SessionRepository interface {
	Load(ctx context.Context) (*models.Session, bool, error)
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// ProfileRepository 用户资料持久化接口
type ProfileRepository interface {
	Load(ctx context.Context) (*models.Profile, bool, error)
	Save(ctx context.Context, profile models.Profile) error
}

// KVCredentialRepository 键值存储实现（键 @registered_users）
type KVCredentialRepository struct {
	doc blob
}

// NewCredentialRepository 创建账号仓库
func NewCredentialRepository(store kvstore.Store) *KVCredentialRepository {
	return &KVCredentialRepository{doc: newBlob(store, constants.StorageKeyCredentials)}
}

// List 读取全部账号，不存在时返回空集合
func (r *KVCredentialRepository) List(ctx context.Context) ([]models.Credential, error) {
	var items []models.Credential
	if _, err := r.doc.load(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Credential{}
	}
	return items, nil
}

// SaveAll 整体覆盖写入账号集合
func (r *KVCredentialRepository) SaveAll(ctx context.Context, credentials []models.Credential) error {
	if credentials == nil {
		credentials = []models.Credential{}
	}
	return r.doc.save(ctx, credentials)
}

// KVSessionRepository 键值存储实现（键 @user_data）
type KVSessionRepository struct {
	doc blob
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(store kvstore.Store) *KVSessionRepository {
	return &KVSessionRepository{doc: newBlob(store, constants.StorageKeySession)}
}

// Load 读取会话
func (r *KVSessionRepository) Load(ctx context.Context) (*models.Session, bool, error) {
	var session models.Session
	found, err := r.doc.load(ctx, &session)
	if err != nil || !found {
		return nil, found, err
	}
	return &session, true, nil
}

// Save 写入会话
func (r *KVSessionRepository) Save(ctx context.Context, session models.Session) error {
	return r.doc.save(ctx, session)
}

// Clear 删除会话
func (r *KVSessionRepository) Clear(ctx context.Context) error {
	return r.doc.remove(ctx)
}

// KVProfileRepository 键值存储实现（键 @user_profile）
type KVProfileRepository struct {
	doc blob
}

// NewProfileRepository 创建资料仓库
func NewProfileRepository(store kvstore.Store) *KVProfileRepository {
	return &KVProfileRepository{doc: newBlob(store, constants.StorageKeyProfile)}
}

// Load 读取资料
func (r *KVProfileRepository) Load(ctx context.Context) (*models.Profile, bool, error) {
	var profile models.Profile
	found, err := r.doc.load(ctx, &profile)
	if err != nil || !found {
		return nil, found, err
	}
	return &profile, true, nil
}

// Save 写入资料
func (r *KVProfileRepository) Save(ctx context.Context, profile models.Profile) error {
	return r.doc.save(ctx, profile)
}
