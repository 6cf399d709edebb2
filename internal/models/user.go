package models

import "time"

// Credential 已注册账号（邮箱全局唯一，只保存密码哈希）
type Credential struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToSession 去掉密码哈希后的会话视图
func (c Credential) ToSession() Session {
	return Session{
		ID:       c.ID,
		Email:    c.Email,
		Username: c.Username,
		Phone:    c.Phone,
	}
}

// Session 当前登录用户
type Session struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
}

// Valid 判断持久化的会话是否完整
func (s Session) Valid() bool {
	return s.ID != "" && s.Email != ""
}

// Profile 用户资料（仅用于展示，不回写账号）
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
