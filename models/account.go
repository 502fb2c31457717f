package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
)

// Account is a login for the shop staff. Parties (User) do not log in.
type Account struct {
	ID           int         `gorm:"primary_key" json:"id"`
	Username     string      `gorm:"size:100;not null;uniqueIndex" json:"username" binding:"required"`
	PasswordHash string      `gorm:"size:100;not null" json:"-"`
	Role         AccountRole `gorm:"type:enum('Admin','Staff');not null;default:'Staff'" json:"role"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     AccountRole `json:"role"`
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	db := config.GetDB()

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, errors.New("username is required")
	}
	if err := utils.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Account](ctx, "username", username, 0); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = AccountRoleStaff
	}

	account := Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Login verifies credentials, issues a JWT and registers it as a session
// token in Redis (best-effort; JWT validation remains the fallback).
func Login(ctx context.Context, username string, password string) (string, *Account, error) {
	db := config.GetDB()

	var account Account
	err := db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Take(&account).Error
	if err != nil {
		return "", nil, errors.New("invalid username or password")
	}

	if err := utils.ComparePassword(account.PasswordHash, password); err != nil {
		return "", nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(account.ID, account.Username)
	if err != nil {
		return "", nil, err
	}

	if err := config.SetRedisValue("Token:"+token, account.Username, utils.GetCacheLifespan()); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "account.go", "Login", "SetRedisValue", account.Username, err)
	}

	return token, &account, nil
}

func Logout(ctx context.Context, token string) error {
	return config.RemoveRedisKey("Token:" + token)
}
