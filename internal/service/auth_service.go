package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/password"

	"go.uber.org/zap"
)

// ResetTokenTTL 找回密码令牌有效期
const ResetTokenTTL = time.Hour

// PasswordResetMailer 发送找回密码邮件
type PasswordResetMailer interface {
	SendPasswordReset(to, token string, ttl time.Duration) error
}

// RegisterInput 注册参数，Role 为 therapist 时需要 Specialty
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Role         string
	PhoneNumber  string
	ProfileImage string
	Specialty    string
	ContactEmail string
	Bio          string
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string
	User        *model.User
	Therapist   *model.Therapist
}

// DashboardStats 管理后台统计
type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalTherapists   int64 `json:"total_therapists"`
	PendingTherapists int64 `json:"pending_therapists"`
}

// AuthService 身份模块：注册、登录、找回密码与管理员操作
type AuthService struct {
	store  *repository.Store
	tokens *jwt.JWTService
	mailer PasswordResetMailer
	now    func() time.Time
}

// NewAuthService mailer 为 nil 时找回密码令牌直接返回给调用方
func NewAuthService(store *repository.Store, tokens *jwt.JWTService, mailer PasswordResetMailer) *AuthService {
	return &AuthService{store: store, tokens: tokens, mailer: mailer, now: time.Now}
}

// Exists 身份查询，供社区模块使用
func (s *AuthService) Exists(ctx context.Context, userID uint) (bool, error) {
	ok, err := s.store.WithContext(ctx).Users.Exists(userID)
	if err != nil {
		return false, fmt.Errorf("查询用户失败: %w", err)
	}
	return ok, nil
}

// Register 注册，咨询师资料与用户同事务创建
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, validationError("Username, email, and password are required")
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleTherapist {
		return nil, validationError("Invalid role")
	}
	if role == model.RoleTherapist && strings.TrimSpace(in.Specialty) == "" {
		return nil, validationError("Specialty is required for therapists")
	}
	if len(in.Password) < password.MinLength {
		return nil, validationError(fmt.Sprintf("Password must be at least %d characters", password.MinLength))
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ProfileImage: in.ProfileImage,
	}
	if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
		user.PhoneNumber = &phone
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Users.UsernameOrEmailTaken(username, email)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if taken {
			return conflictError("Username or Email already exists")
		}
		if err := tx.Users.Create(user); err != nil {
			return translateWrite(err, "Username, email or phone number already exists", "创建用户失败")
		}
		if role != model.RoleTherapist {
			return nil
		}
		return tx.Users.CreateTherapist(&model.Therapist{
			UserID:       user.ID,
			Specialty:    strings.TrimSpace(in.Specialty),
			Bio:          in.Bio,
			ContactEmail: in.ContactEmail,
			PhoneNumber:  in.PhoneNumber,
			ProfileImage: in.ProfileImage,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("用户注册成功", zap.Uint("user_id", user.ID), zap.String("role", role))
	return user, nil
}

// Login 邮箱密码登录，返回携带角色的访问令牌
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || plainPassword == "" {
		return nil, validationError("Email and password are required")
	}
	store := s.store.WithContext(ctx)
	u, err := store.Users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorizedError("Invalid email or password")
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, unauthorizedError("Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}
	result := &LoginResult{AccessToken: token, User: u}
	if u.Role == model.RoleTherapist {
		t, err := store.Users.GetTherapistByUserID(u.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("查询咨询师资料失败: %w", err)
		}
		result.Therapist = t
	}
	return result, nil
}

// Me 当前用户
func (s *AuthService) Me(ctx context.Context, userID uint) (*model.User, error) {
	u, err := s.store.WithContext(ctx).Users.GetByID(userID)
	if err != nil {
		return nil, translateLookup(err, "User not found", "查询用户失败")
	}
	return u, nil
}

// ForgotPassword 生成找回密码令牌
// 配置了邮件时令牌通过邮件发送，返回空串；否则直接返回令牌
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", validationError("Email is required")
	}
	store := s.store.WithContext(ctx)
	u, err := store.Users.GetByEmail(email)
	if err != nil {
		return "", translateLookup(err, "User not found", "查询用户失败")
	}

	token, err := newResetToken()
	if err != nil {
		return "", fmt.Errorf("生成令牌失败: %w", err)
	}
	if err := store.Users.SetResetToken(u.ID, token, s.now().Add(ResetTokenTTL)); err != nil {
		return "", fmt.Errorf("保存令牌失败: %w", err)
	}

	if s.mailer == nil {
		return token, nil
	}
	if err := s.mailer.SendPasswordReset(u.Email, token, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("发送找回密码邮件失败: %w", err)
	}
	return "", nil
}

// ResetPassword 使用令牌重置密码
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	if token == "" || newPassword == "" || confirm == "" {
		return validationError("All fields are required")
	}
	if newPassword != confirm {
		return validationError("Passwords do not match")
	}
	if len(newPassword) < password.MinLength {
		return validationError(fmt.Sprintf("Password must be at least %d characters", password.MinLength))
	}

	store := s.store.WithContext(ctx)
	u, err := store.Users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("Invalid token")
		}
		return fmt.Errorf("查询令牌失败: %w", err)
	}
	if u.ResetTokenExpires == nil || u.ResetTokenExpires.Before(s.now()) {
		return validationError("Reset token has expired")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	if err := store.Users.ResetPassword(u.ID, hash); err != nil {
		return fmt.Errorf("重置密码失败: %w", err)
	}
	return nil
}

// Dashboard 管理后台统计
func (s *AuthService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	store := s.store.WithContext(ctx)
	var stats DashboardStats
	var err error
	if stats.TotalUsers, err = store.Users.Count(); err != nil {
		return nil, fmt.Errorf("统计用户失败: %w", err)
	}
	if stats.TotalTherapists, err = store.Users.CountTherapists(false); err != nil {
		return nil, fmt.Errorf("统计咨询师失败: %w", err)
	}
	if stats.PendingTherapists, err = store.Users.CountTherapists(true); err != nil {
		return nil, fmt.Errorf("统计咨询师失败: %w", err)
	}
	return &stats, nil
}

// ListUsers 分页列出用户，page 从 1 开始
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	users, total, err := s.store.WithContext(ctx).Users.List((page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("查询用户列表失败: %w", err)
	}
	return users, total, nil
}

// SetRole 修改用户角色（promote/demote）
func (s *AuthService) SetRole(ctx context.Context, userID uint, role string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(userID); err != nil {
			return translateLookup(err, "User not found", "查询用户失败")
		}
		if err := tx.Users.UpdateRole(userID, role); err != nil {
			return fmt.Errorf("更新角色失败: %w", err)
		}
		return nil
	})
}

func (s *AuthService) ListTherapists(ctx context.Context) ([]model.Therapist, error) {
	list, err := s.store.WithContext(ctx).Users.ListTherapists()
	if err != nil {
		return nil, fmt.Errorf("查询咨询师失败: %w", err)
	}
	return list, nil
}

func (s *AuthService) VerifyTherapist(ctx context.Context, therapistID uint) error {
	if err := s.store.WithContext(ctx).Users.VerifyTherapist(therapistID); err != nil {
		return translateLookup(err, "Therapist not found", "认证咨询师失败")
	}
	return nil
}

// newResetToken 32字节随机数的 URL 安全编码
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
