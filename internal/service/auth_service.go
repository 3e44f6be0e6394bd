package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService 登录认证服务接口
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// authService 实现
type authService struct {
	accounts repository.AccountsRepository
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(accounts repository.AccountsRepository, logger *zap.Logger) AuthService {
	return &authService{accounts: accounts, logger: logger}
}

// HashPassword 密码哈希（只依赖密码本身，与账号无关）
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// LoginRequest 登录请求
type LoginRequest struct {
	UserID   string // 必填
	Password string // 必填
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`  // 访问令牌（占位符）
	RefreshToken string `json:"refreshToken"` // 刷新令牌（占位符）
	UserID       string `json:"userId"`
	Role         string `json:"role"`
}

// Login 用户登录：凭证校验走 sha256 哈希比对
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.Password == "" {
		return nil, fmt.Errorf("missing credentials")
	}

	account, err := s.accounts.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil || account.PwdHash == "" {
		s.logger.Warn("Login failed: unknown user", zap.String("user_id", req.UserID))
		return nil, fmt.Errorf("invalid credentials")
	}

	if HashPassword(req.Password) != account.PwdHash {
		s.logger.Warn("Login failed: password mismatch", zap.String("user_id", req.UserID))
		return nil, fmt.Errorf("invalid credentials")
	}

	return &LoginResponse{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		UserID:       account.UserID,
		Role:         account.Role,
	}, nil
}
